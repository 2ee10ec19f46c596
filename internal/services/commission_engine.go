package services

import (
	"context"
	"errors"
	"fmt"
	"storefront/internal/models"
	"storefront/internal/repository"
	"storefront/pkg/money"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type CommissionOutcome string

const (
	CommissionCredited        CommissionOutcome = "credited"
	CommissionNoAffiliate     CommissionOutcome = "no_affiliate"
	CommissionNoMatchingRule  CommissionOutcome = "no_matching_rule"
	CommissionAlreadyCredited CommissionOutcome = "already_credited"
)

type CommissionResult struct {
	Outcome     CommissionOutcome `json:"outcome"`
	AffiliateID string            `json:"affiliate_id,omitempty"`
	RuleID      uint              `json:"rule_id,omitempty"`
	Amount      decimal.Decimal   `json:"amount"`
}

// RuleMatch is the result of evaluating a rule list: Matched with the rule, or no match.
type RuleMatch struct {
	Rule    models.CommissionRule
	Matched bool
}

// MatchRule returns the first rule, in list order, whose trigger equals the
// event and whose scope accepts the order. Rules must already be sorted by priority.
func MatchRule(rules []models.CommissionRule, trigger models.CommissionTrigger, order *models.Order) RuleMatch {
	for _, rule := range rules {
		if rule.Trigger != trigger || !rule.InScope(order) {
			continue
		}
		return RuleMatch{Rule: rule, Matched: true}
	}
	return RuleMatch{}
}

// ComputeCommission returns the commission owed on the order for the rule,
// in the order currency.
func ComputeCommission(rule models.CommissionRule, order *models.Order) (decimal.Decimal, error) {
	switch rule.Type {
	case models.CommissionFixed:
		return rule.Value, nil
	case models.CommissionPercentage:
		return money.Percentage(order.Total, rule.Value, order.Currency), nil
	default:
		return decimal.Zero, fmt.Errorf("unknown commission type %q on rule %d", rule.Type, rule.ID)
	}
}

type CommissionEngine interface {
	ProcessOrderForCommission(ctx context.Context, order *models.Order, trigger models.CommissionTrigger) (CommissionResult, error)
}

type commissionEngine struct {
	affiliates    AffiliateService
	ruleRepo      repository.CommissionRuleRepository
	affiliateRepo repository.AffiliateRepository
	logger        *zap.Logger
}

func NewCommissionEngine(
	affiliates AffiliateService,
	ruleRepo repository.CommissionRuleRepository,
	affiliateRepo repository.AffiliateRepository,
	logger *zap.Logger,
) CommissionEngine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &commissionEngine{
		affiliates:    affiliates,
		ruleRepo:      ruleRepo,
		affiliateRepo: affiliateRepo,
		logger:        logger.Named("commission"),
	}
}

func (e *commissionEngine) ProcessOrderForCommission(ctx context.Context, order *models.Order, trigger models.CommissionTrigger) (CommissionResult, error) {
	log := e.logger.With(zap.String("order_id", order.ID), zap.String("trigger", string(trigger)))

	affiliate, err := e.affiliates.GetAffiliateByAttribution(ctx, order)
	switch {
	case errors.Is(err, ErrAffiliateNotFound), errors.Is(err, ErrAffiliateNotApproved):
		log.Warn("order attributed to unusable affiliate", zap.String("affiliate_ref", order.AffiliateRef), zap.Error(err))
		return CommissionResult{Outcome: CommissionNoAffiliate}, nil
	case err != nil:
		return CommissionResult{}, err
	case affiliate == nil:
		return CommissionResult{Outcome: CommissionNoAffiliate}, nil
	}

	rules, err := e.ruleRepo.ListActive(ctx)
	if err != nil {
		return CommissionResult{}, fmt.Errorf("failed to load commission rules: %w", err)
	}

	match := MatchRule(rules, trigger, order)
	if !match.Matched {
		log.Info("no commission rule matched", zap.String("affiliate_id", affiliate.ID))
		return CommissionResult{Outcome: CommissionNoMatchingRule, AffiliateID: affiliate.ID}, nil
	}

	amount, err := ComputeCommission(match.Rule, order)
	if err != nil {
		return CommissionResult{}, err
	}

	result := CommissionResult{AffiliateID: affiliate.ID, RuleID: match.Rule.ID, Amount: amount}
	err = e.affiliateRepo.CreditAffiliate(ctx, &models.Commission{
		AffiliateID: affiliate.ID,
		OrderID:     order.ID,
		Trigger:     trigger,
		RuleID:      match.Rule.ID,
		Amount:      amount,
		SaleAmount:  order.Total,
		Currency:    order.Currency,
	})
	switch {
	case errors.Is(err, repository.ErrAlreadyCredited):
		log.Info("commission already credited", zap.String("affiliate_id", affiliate.ID))
		result.Outcome = CommissionAlreadyCredited
		result.Amount = decimal.Zero
		return result, nil
	case errors.Is(err, repository.ErrNotFound):
		log.Warn("affiliate disappeared before credit", zap.String("affiliate_id", affiliate.ID))
		return CommissionResult{Outcome: CommissionNoAffiliate}, nil
	case err != nil:
		return CommissionResult{}, fmt.Errorf("failed to credit affiliate %s: %w", affiliate.ID, err)
	}

	log.Info("commission credited",
		zap.String("affiliate_id", affiliate.ID),
		zap.Uint("rule_id", match.Rule.ID),
		zap.String("amount", amount.String()),
		zap.String("currency", order.Currency),
	)
	result.Outcome = CommissionCredited
	return result, nil
}
