package service

import (
	"github.com/phrazzld/tatame-api/internal/config"
	"github.com/phrazzld/tatame-api/internal/domain"
)

// Subscription describes the paid plan as seen by one actor.
type Subscription struct {
	PlanName     string      `json:"plan_name"`
	MonthlyPrice string      `json:"monthly_price"`
	Benefits     []string    `json:"benefits"`
	Tier         domain.Tier `json:"tier"`
	Subscribed   bool        `json:"subscribed"`
}

// SubscriptionService exposes the paid plan and the checkout hand-off.
// Activation happens out of band; nothing here writes the tier.
type SubscriptionService struct {
	cfg config.PaymentConfig
}

// NewSubscriptionService creates a SubscriptionService.
func NewSubscriptionService(cfg config.PaymentConfig) *SubscriptionService {
	return &SubscriptionService{cfg: cfg}
}

// Info describes the plan and whether actor already subscribes.
func (s *SubscriptionService) Info(actor Actor) Subscription {
	benefits := s.cfg.Benefits
	if benefits == nil {
		benefits = []string{}
	}
	return Subscription{
		PlanName:     s.cfg.PlanName,
		MonthlyPrice: s.cfg.MonthlyPrice,
		Benefits:     benefits,
		Tier:         actor.Tier,
		Subscribed:   actor.Tier == domain.TierActive,
	}
}

// CheckoutURL is the external checkout the client is redirected to.
func (s *SubscriptionService) CheckoutURL() string {
	return s.cfg.CheckoutURL
}
