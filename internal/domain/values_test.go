package domain

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnum(t *testing.T) {
	t.Parallel()

	rank, err := ParseEnum[Rank]("rank", "Roxa")
	require.NoError(t, err)
	assert.Equal(t, RankRoxa, rank)

	pos, err := ParseEnum[Position]("position", "50/50")
	require.NoError(t, err)
	assert.Equal(t, PositionFiftyFifty, pos)

	_, err = ParseEnum[SessionType]("type", "")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "type", verr.Field)
	assert.Equal(t, "is required", verr.Reason)

	_, err = ParseEnum[TechniqueCategory]("category", "guarda")
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "category", verr.Field)
	assert.True(t, errors.Is(err, ErrValidation))
}

func TestEnumValues(t *testing.T) {
	t.Parallel()

	assert.Len(t, Ranks, 5)
	assert.Len(t, SessionTypes, 5)
	assert.Len(t, TechniqueCategories, 8)
	assert.Len(t, Positions, 11)
	assert.True(t, SessionTypeEstudo.Valid())
	assert.Equal(t, SessionType("Estudo Teórico"), SessionTypeEstudo)
	assert.False(t, Tier("premium").Valid())
}

func TestRankOrder(t *testing.T) {
	t.Parallel()

	for i := 1; i < len(Ranks); i++ {
		assert.Less(t, Ranks[i-1].Order(), Ranks[i].Order())
	}
	assert.Equal(t, 0, RankBranca.Order())
	assert.Equal(t, 4, RankPreta.Order())
	assert.Equal(t, -1, Rank("Coral").Order())
}

func TestDate(t *testing.T) {
	t.Parallel()

	d, err := ParseDate("2024-02-29")
	require.NoError(t, err)
	assert.Equal(t, "2024-02-29", d.String())
	assert.Equal(t, NewDate(2024, time.February, 29), d)

	_, err = ParseDate("29/02/2024")
	assert.ErrorIs(t, err, ErrInvalidFormat)

	assert.Equal(t, "", Date{}.String())
	assert.True(t, Date{}.IsZero())
}

func TestDateOf_UsesLocalCalendarDay(t *testing.T) {
	t.Parallel()

	saoPaulo := time.FixedZone("BRT", -3*60*60)
	late := time.Date(2024, time.March, 10, 23, 30, 0, 0, saoPaulo)
	assert.Equal(t, "2024-03-10", DateOf(late).String())
}

func TestDateJSON(t *testing.T) {
	t.Parallel()

	type wrapper struct {
		D Date `json:"d"`
	}

	out, err := json.Marshal(wrapper{D: NewDate(2023, time.January, 5)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"d":"2023-01-05"}`, string(out))

	out, err = json.Marshal(wrapper{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"d":null}`, string(out))

	var w wrapper
	require.NoError(t, json.Unmarshal([]byte(`{"d":"2023-12-31"}`), &w))
	assert.Equal(t, NewDate(2023, time.December, 31), w.D)

	require.NoError(t, json.Unmarshal([]byte(`{"d":null}`), &w))
	assert.True(t, w.D.IsZero())

	assert.Error(t, json.Unmarshal([]byte(`{"d":"tomorrow"}`), &w))
	assert.Error(t, json.Unmarshal([]byte(`{"d":20230101}`), &w))
}

func TestDateScanValue(t *testing.T) {
	t.Parallel()

	var d Date
	require.NoError(t, d.Scan("2022-07-01"))
	assert.Equal(t, NewDate(2022, time.July, 1), d)

	require.NoError(t, d.Scan([]byte("2022-07-02")))
	assert.Equal(t, NewDate(2022, time.July, 2), d)

	require.NoError(t, d.Scan(time.Date(2022, time.July, 3, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, NewDate(2022, time.July, 3), d)

	require.NoError(t, d.Scan("2022-07-04T00:00:00Z"))
	assert.Equal(t, NewDate(2022, time.July, 4), d)

	require.NoError(t, d.Scan(nil))
	assert.True(t, d.IsZero())

	assert.Error(t, d.Scan(42))

	v, err := NewDate(2022, time.July, 5).Value()
	require.NoError(t, err)
	assert.Equal(t, "2022-07-05", v)

	v, err = Date{}.Value()
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestDaysSinceAndUntil(t *testing.T) {
	t.Parallel()

	today := NewDate(2024, time.June, 15)

	testCases := []struct {
		name      string
		other     Date
		wantSince int
		wantUntil int
	}{
		{"same day", today, 0, 0},
		{"one day apart", NewDate(2024, time.June, 14), 1, -1},
		{"across a leap day", NewDate(2024, time.February, 28), 108, -108},
		{"future", NewDate(2024, time.July, 15), -30, 30},
		{"years", NewDate(2020, time.June, 15), 1461, -1461},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.wantSince, DaysSince(tc.other, today))
			assert.Equal(t, tc.wantUntil, DaysUntil(tc.other, today))
		})
	}
}

func TestSplitList(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"Triângulo", "Passagem"}, SplitList("Triângulo, Passagem, "))
	assert.Equal(t, []string{}, SplitList(""))
	assert.Equal(t, []string{}, SplitList(" , ,"))
	assert.Equal(t, []string{"Kimura", "Armlock", "Kimura"}, SplitList("Kimura,Armlock , Kimura"))
}

func TestCleanText(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		in   string
		want string
	}{
		{"  Rola forte  ", "Rola forte"},
		{"<script>alert(1)</script>Notas", "Notas"},
		{"<b>Guarda</b> & passagem", "Guarda & passagem"},
		{"&lt;script&gt;alert(1)&lt;/script&gt;Notas", "Notas"},
		{"&lt;b&gt;Kimura&lt;/b&gt; 5 &amp; 6", "Kimura 5 & 6"},
		{"Finalização \"rápida\"", "Finalização \"rápida\""},
		{"", ""},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.want, CleanText(tc.in), "input %q", tc.in)
	}
}

func TestStatusPresentation(t *testing.T) {
	t.Parallel()

	for _, s := range TechniqueStatuses {
		p := s.Presentation()
		assert.NotEmpty(t, p.Label, "technique status %s", s)
		assert.NotEmpty(t, p.Icon, "technique status %s", s)
		assert.NotEmpty(t, p.Color, "technique status %s", s)
	}
	for _, s := range GoalStatuses {
		p := s.Presentation()
		assert.NotEmpty(t, p.Label, "goal status %s", s)
		assert.NotEmpty(t, p.Icon, "goal status %s", s)
		assert.NotEmpty(t, p.Color, "goal status %s", s)
	}

	assert.Equal(t, StatusPresentation{Label: "Dominada", Icon: "check-circle", Color: "green"}, TechniqueMastered.Presentation())
	assert.Equal(t, "Cancelada", GoalCancelled.Presentation().Label)
	assert.Equal(t, StatusPresentation{}, GoalStatus("archived").Presentation())
}
