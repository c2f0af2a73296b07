package domain

import (
	"fmt"
	"slices"
)

// The values below are stored and exchanged verbatim; clients of the
// journal depend on the exact spelling.

// Rank is a belt rank, ordered from lowest to highest.
type Rank string

// Possible rank values, in ascending order.
const (
	RankBranca Rank = "Branca"
	RankAzul   Rank = "Azul"
	RankRoxa   Rank = "Roxa"
	RankMarrom Rank = "Marrom"
	RankPreta  Rank = "Preta"
)

// Ranks lists every rank from lowest to highest.
var Ranks = []Rank{RankBranca, RankAzul, RankRoxa, RankMarrom, RankPreta}

// Order returns the zero-based position of the rank, or -1 if unknown.
func (r Rank) Order() int { return slices.Index(Ranks, r) }

// Valid reports whether r is a known rank.
func (r Rank) Valid() bool { return r.Order() >= 0 }

// SessionType classifies a training session.
type SessionType string

// Possible session types.
const (
	SessionTypeAula       SessionType = "Aula"
	SessionTypeRola       SessionType = "Rola"
	SessionTypeCampeonato SessionType = "Campeonato"
	SessionTypeDrill      SessionType = "Drill"
	SessionTypeEstudo     SessionType = "Estudo Teórico"
)

// SessionTypes lists every session type.
var SessionTypes = []SessionType{
	SessionTypeAula, SessionTypeRola, SessionTypeCampeonato, SessionTypeDrill, SessionTypeEstudo,
}

// Valid reports whether t is a known session type.
func (t SessionType) Valid() bool { return slices.Contains(SessionTypes, t) }

// TechniqueCategory groups techniques by purpose.
type TechniqueCategory string

// Possible technique categories.
const (
	CategoryGuarda      TechniqueCategory = "Guarda"
	CategoryPassagem    TechniqueCategory = "Passagem"
	CategoryFinalizacao TechniqueCategory = "Finalização"
	CategoryRaspagem    TechniqueCategory = "Raspagem"
	CategoryDefesa      TechniqueCategory = "Defesa"
	CategoryTransicao   TechniqueCategory = "Transição"
	CategoryQuedas      TechniqueCategory = "Quedas"
	CategoryControle    TechniqueCategory = "Controle"
)

// TechniqueCategories lists every technique category.
var TechniqueCategories = []TechniqueCategory{
	CategoryGuarda, CategoryPassagem, CategoryFinalizacao, CategoryRaspagem,
	CategoryDefesa, CategoryTransicao, CategoryQuedas, CategoryControle,
}

// Valid reports whether c is a known category.
func (c TechniqueCategory) Valid() bool { return slices.Contains(TechniqueCategories, c) }

// Position is the starting position of a technique.
type Position string

// Possible positions.
const (
	PositionGuardaFechada   Position = "Guarda Fechada"
	PositionMeiaGuarda      Position = "Meia-Guarda"
	PositionFiftyFifty      Position = "50/50"
	PositionDeLaRiva        Position = "De La Riva"
	PositionSpiderGuard     Position = "Spider Guard"
	PositionXGuard          Position = "X-Guard"
	PositionMontada         Position = "Montada"
	PositionCostas          Position = "Costas"
	PositionLateral         Position = "Lateral"
	PositionJoelhoNaBarriga Position = "Joelho na Barriga"
	PositionEmPe            Position = "Em Pé"
)

// Positions lists every position.
var Positions = []Position{
	PositionGuardaFechada, PositionMeiaGuarda, PositionFiftyFifty, PositionDeLaRiva,
	PositionSpiderGuard, PositionXGuard, PositionMontada, PositionCostas,
	PositionLateral, PositionJoelhoNaBarriga, PositionEmPe,
}

// Valid reports whether p is a known position.
func (p Position) Valid() bool { return slices.Contains(Positions, p) }

// TechniqueStatus tracks how well a technique is known.
type TechniqueStatus string

// Possible technique statuses.
const (
	TechniqueStudying TechniqueStatus = "studying"
	TechniqueMastered TechniqueStatus = "mastered"
	TechniqueReview   TechniqueStatus = "review"
)

// TechniqueStatuses lists every technique status.
var TechniqueStatuses = []TechniqueStatus{TechniqueStudying, TechniqueMastered, TechniqueReview}

// Valid reports whether s is a known technique status.
func (s TechniqueStatus) Valid() bool { return slices.Contains(TechniqueStatuses, s) }

// GoalStatus tracks the progress of a goal.
type GoalStatus string

// Possible goal statuses.
const (
	GoalInProgress GoalStatus = "in_progress"
	GoalCompleted  GoalStatus = "completed"
	GoalCancelled  GoalStatus = "cancelled"
)

// GoalStatuses lists every goal status.
var GoalStatuses = []GoalStatus{GoalInProgress, GoalCompleted, GoalCancelled}

// Valid reports whether s is a known goal status.
func (s GoalStatus) Valid() bool { return slices.Contains(GoalStatuses, s) }

// Tier is the subscription level of a profile.
type Tier string

// Possible tiers.
const (
	TierFree      Tier = "free"
	TierActive    Tier = "active"
	TierExpired   Tier = "expired"
	TierCancelled Tier = "cancelled"
)

// Tiers lists every tier.
var Tiers = []Tier{TierFree, TierActive, TierExpired, TierCancelled}

// Valid reports whether t is a known tier.
func (t Tier) Valid() bool { return slices.Contains(Tiers, t) }

// Enum is satisfied by every closed string type in this file.
type Enum interface {
	~string
	Valid() bool
}

// ParseEnum converts raw into T, returning a ValidationError for field when
// raw is empty or not one of T's values.
func ParseEnum[T Enum](field, raw string) (T, error) {
	v := T(raw)
	if raw == "" {
		return v, NewValidationError(field, "is required")
	}
	if !v.Valid() {
		return v, NewValidationError(field, fmt.Sprintf("unknown value %q", raw))
	}
	return v, nil
}

// checkEnum validates an already typed value.
func checkEnum[T Enum](field string, v T) error {
	_, err := ParseEnum[T](field, string(v))
	return err
}
