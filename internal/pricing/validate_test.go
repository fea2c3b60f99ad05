package pricing_test

import (
	"testing"

	"sauna-locker-desk/internal/model"
	"sauna-locker-desk/internal/pricing"
	apperrors "sauna-locker-desk/pkg/app_errors"

	"github.com/stretchr/testify/assert"
)

func TestValidate(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		assert.NoError(t, pricing.Validate(testPricingConfig()))
	})

	t.Run("Success - overnight rule with max stay time", func(t *testing.T) {
		cfg := testPricingConfig()
		cfg.Rules = append(cfg.Rules, model.TimeSlotRule{
			Name: "深夜", Price: 450, StartTime: "23:00", EndTime: "02:00", Days: []int{5}, MaxStayTime: "08:00",
		})
		assert.NoError(t, pricing.Validate(cfg))
	})

	failures := map[string]func(cfg *model.PricingConfig){
		"malformed start time": func(cfg *model.PricingConfig) { cfg.Rules[0].StartTime = "1330" },
		"hour out of range":    func(cfg *model.PricingConfig) { cfg.Rules[0].EndTime = "24:00" },
		"single digit hour":    func(cfg *model.PricingConfig) { cfg.Rules[0].StartTime = "9:30" },
		"malformed max stay":   func(cfg *model.PricingConfig) { cfg.Rules[1].MaxStayTime = "6am" },
		"weekday out of range": func(cfg *model.PricingConfig) { cfg.Rules[0].Days = []int{7} },
		"no days":              func(cfg *model.PricingConfig) { cfg.Rules[0].Days = nil },
		"negative price":       func(cfg *model.PricingConfig) { cfg.Rules[0].Price = -1 },
		"zero price":           func(cfg *model.PricingConfig) { cfg.Rules[0].Price = 0 },
		"missing name":         func(cfg *model.PricingConfig) { cfg.Rules[0].Name = "" },
		"end before start":     func(cfg *model.PricingConfig) { cfg.Rules[0].EndTime = "12:00" },
		"negative base price":  func(cfg *model.PricingConfig) { cfg.BasePrice = -10 },
		"zero stay hours":      func(cfg *model.PricingConfig) { cfg.DefaultStayHours = 0 },
		"negative overtime":    func(cfg *model.PricingConfig) { cfg.Overtime.FeePerUnit = -1 },
	}

	for name, mutate := range failures {
		t.Run("Failed - "+name, func(t *testing.T) {
			cfg := testPricingConfig()
			mutate(cfg)
			assert.ErrorIs(t, pricing.Validate(cfg), apperrors.ErrInvalidConfiguration)
		})
	}

	t.Run("Failed - nil config", func(t *testing.T) {
		assert.ErrorIs(t, pricing.Validate(nil), apperrors.ErrInvalidConfiguration)
	})
}
