package memory

import (
	"context"
	"sort"
	"storefront/internal/models"
	"sync"
)

type CommissionRuleRepository struct {
	mu     sync.RWMutex
	rules  []models.CommissionRule
	nextID uint
}

func NewCommissionRuleRepository() *CommissionRuleRepository {
	return &CommissionRuleRepository{}
}

func (r *CommissionRuleRepository) Create(_ context.Context, rule *models.CommissionRule) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if rule.ID == 0 {
		r.nextID++
		rule.ID = r.nextID
	} else if rule.ID > r.nextID {
		r.nextID = rule.ID
	}
	r.rules = append(r.rules, *rule)
	return nil
}

func (r *CommissionRuleRepository) ListActive(_ context.Context) ([]models.CommissionRule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rules := make([]models.CommissionRule, 0, len(r.rules))
	for _, rule := range r.rules {
		if rule.Active {
			rules = append(rules, rule)
		}
	}
	sort.SliceStable(rules, func(i, j int) bool {
		if rules[i].Priority != rules[j].Priority {
			return rules[i].Priority < rules[j].Priority
		}
		return rules[i].ID < rules[j].ID
	})
	return rules, nil
}
