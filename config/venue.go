package config

import (
	"fmt"
	"os"
	"regexp"
	"time"

	"sauna-locker-desk/internal/model"
	"sauna-locker-desk/internal/pricing"
	apperrors "sauna-locker-desk/pkg/app_errors"

	"gopkg.in/yaml.v3"
)

var ticketPrefixPattern = regexp.MustCompile(`^[A-Z]+$`)

// VenueConfig 場館設定：置物櫃數量、計價規則、票種
type VenueConfig struct {
	Name        string                      `yaml:"name"`
	Timezone    string                      `yaml:"timezone"`
	LockerCount int                         `yaml:"lockerCount"`
	Pricing     model.PricingConfig         `yaml:"pricing"`
	TicketTypes map[string]model.TicketType `yaml:"ticketTypes"`

	Location *time.Location `yaml:"-"`
}

// LoadVenue 讀取場館 YAML，設定錯誤時啟動失敗
func LoadVenue(path string) (*VenueConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read venue config: %w", err)
	}
	return ParseVenue(data)
}

func ParseVenue(data []byte) (*VenueConfig, error) {
	var venue VenueConfig
	if err := yaml.Unmarshal(data, &venue); err != nil {
		return nil, fmt.Errorf("%w: parse venue config: %v", apperrors.ErrInvalidConfiguration, err)
	}
	if err := venue.Validate(); err != nil {
		return nil, err
	}
	return &venue, nil
}

// Validate 檢查設定並解析時區
func (v *VenueConfig) Validate() error {
	if v.LockerCount <= 0 {
		return fmt.Errorf("%w: lockerCount must be positive", apperrors.ErrInvalidConfiguration)
	}

	if v.Timezone == "" {
		v.Timezone = "Local"
	}
	loc, err := time.LoadLocation(v.Timezone)
	if err != nil {
		return fmt.Errorf("%w: timezone %q: %v", apperrors.ErrInvalidConfiguration, v.Timezone, err)
	}
	v.Location = loc

	if err := pricing.Validate(&v.Pricing); err != nil {
		return err
	}

	for prefix, ticketType := range v.TicketTypes {
		if !ticketPrefixPattern.MatchString(prefix) {
			return fmt.Errorf("%w: ticket type %q must be upper-case letters", apperrors.ErrInvalidConfiguration, prefix)
		}
		if ticketType.Price < 0 {
			return fmt.Errorf("%w: ticket type %q: price must not be negative", apperrors.ErrInvalidConfiguration, prefix)
		}
	}
	return nil
}

// DefaultVenue 測試與本機開發用的預設場館
func DefaultVenue() *VenueConfig {
	return &VenueConfig{
		Name:        "default",
		Timezone:    "UTC",
		LockerCount: 100,
		Pricing: model.PricingConfig{
			BasePrice:        500,
			DefaultStayHours: 12,
			Rules: []model.TimeSlotRule{
				{Name: "週日毛巾優惠", Price: 350, StartTime: "13:30", EndTime: "15:30", Days: []int{0}},
				{Name: "晚間優惠", Price: 400, StartTime: "18:30", EndTime: "19:30", Days: []int{0, 1, 2, 3, 4, 5, 6}, MaxStayTime: "06:00"},
			},
			Overtime: model.OvertimePolicy{UnitMinutes: 60, FeePerUnit: 100, GraceMinutes: 10},
		},
		TicketTypes: map[string]model.TicketType{
			"HI":  {Name: "平日票", Price: 450},
			"MAN": {Name: "男賓票", Price: 400},
			"FUN": {Name: "優惠票", Price: 200},
		},
		Location: time.UTC,
	}
}
