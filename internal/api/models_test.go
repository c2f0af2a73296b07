package api

import (
	"encoding/json"
	"testing"

	"github.com/phrazzld/tatame-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTechniqueList_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    TechniqueList
		wantErr bool
	}{
		{"array", `["Armlock","Triângulo"]`, TechniqueList{"Armlock", "Triângulo"}, false},
		{"comma separated", `"Armlock, Triângulo,, "`, TechniqueList{"Armlock", "Triângulo"}, false},
		{"empty string", `""`, TechniqueList{}, false},
		{"null", `null`, nil, false},
		{"number", `42`, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var list TechniqueList
			err := json.Unmarshal([]byte(tt.input), &list)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrInvalidFormat)
				return
			}
			require.NoError(t, err)
			if len(tt.want) == 0 {
				assert.Empty(t, list)
				return
			}
			assert.Equal(t, tt.want, list)
		})
	}
}

func TestUpdateProfileRequest(t *testing.T) {
	var req UpdateProfileRequest
	require.NoError(t, json.Unmarshal([]byte(`{"name":"Rickson","start_date":"2010-05-01"}`), &req))
	require.NoError(t, req.Validate())

	update := req.Update()
	require.NotNil(t, update.Name)
	assert.Equal(t, "Rickson", *update.Name)
	assert.Equal(t, domain.NewDate(2010, 5, 1), *update.StartDate)
	assert.Nil(t, update.Rank)

	for _, body := range []string{`{"tier":"active"}`, `{"tier":null}`} {
		var withTier UpdateProfileRequest
		require.NoError(t, json.Unmarshal([]byte(body), &withTier))
		var vErr *domain.ValidationError
		require.ErrorAs(t, withTier.Validate(), &vErr, body)
		assert.Equal(t, "tier", vErr.Field)
	}
}

func TestGoalResponse(t *testing.T) {
	today := domain.NewDate(2024, 3, 20)
	goal := &domain.Goal{Title: "Competir", Deadline: domain.NewDate(2024, 3, 19), Status: domain.GoalInProgress}

	raw, err := json.Marshal(newGoalResponse(goal, today))
	require.NoError(t, err)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, "Competir", body["title"])
	assert.Equal(t, float64(-1), body["days_remaining"])
	assert.Equal(t, true, body["expired"])
	assert.Equal(t, map[string]interface{}{"label": "Em Andamento", "icon": "clock", "color": "blue"}, body["presentation"])
}
