package service

import (
	"context"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/course-supporter-api/internal/dto"
	"github.com/noah-isme/course-supporter-api/internal/models"
	"github.com/noah-isme/course-supporter-api/internal/shaper"
	"github.com/noah-isme/course-supporter-api/pkg/config"
	appErrors "github.com/noah-isme/course-supporter-api/pkg/errors"
)

type settingRepository interface {
	ListByKeys(ctx context.Context, keys []string) ([]models.SettingOverride, error)
}

type settingApplier func(settings *models.Settings, value string) bool

var settingAppliers = map[string]settingApplier{
	"user_details_pagelength":   intSetting(func(s *models.Settings) *int { return &s.UserDetailsPageLength }),
	"user_details_order":        orderSetting(func(s *models.Settings) *string { return &s.UserDetailsOrder }),
	"course_details_pagelength": intSetting(func(s *models.Settings) *int { return &s.CourseDetailsPageLength }),
	"course_details_order":      orderSetting(func(s *models.Settings) *string { return &s.CourseDetailsOrder }),
	"user_table_pagelength":     intSetting(func(s *models.Settings) *int { return &s.UserTablePageLength }),
	"user_table_order":          orderSetting(func(s *models.Settings) *string { return &s.UserTableOrder }),
	"course_table_pagelength":   intSetting(func(s *models.Settings) *int { return &s.CourseTablePageLength }),
	"course_table_order":        orderSetting(func(s *models.Settings) *string { return &s.CourseTableOrder }),
	"level_labels": func(s *models.Settings, value string) bool {
		s.LevelLabels = value
		return true
	},

	"user_details_showusername":     boolSetting(func(s *models.Settings) *bool { return &s.UserDetails.Username }),
	"user_details_showidnumber":     boolSetting(func(s *models.Settings) *bool { return &s.UserDetails.IDNumber }),
	"user_details_showfirstname":    boolSetting(func(s *models.Settings) *bool { return &s.UserDetails.Firstname }),
	"user_details_showlastname":     boolSetting(func(s *models.Settings) *bool { return &s.UserDetails.Lastname }),
	"user_details_showmailadress":   boolSetting(func(s *models.Settings) *bool { return &s.UserDetails.MailAddress }),
	"user_details_showtimecreated":  boolSetting(func(s *models.Settings) *bool { return &s.UserDetails.TimeCreated }),
	"user_details_showtimemodified": boolSetting(func(s *models.Settings) *bool { return &s.UserDetails.TimeModified }),
	"user_details_showlastlogin":    boolSetting(func(s *models.Settings) *bool { return &s.UserDetails.LastLogin }),

	"course_details_showshortname":      boolSetting(func(s *models.Settings) *bool { return &s.CourseDetails.Shortname }),
	"course_details_showfullname":       boolSetting(func(s *models.Settings) *bool { return &s.CourseDetails.Fullname }),
	"course_details_showvisible":        boolSetting(func(s *models.Settings) *bool { return &s.CourseDetails.Visible }),
	"course_details_showpath":           boolSetting(func(s *models.Settings) *bool { return &s.CourseDetails.Path }),
	"course_details_showtimecreated":    boolSetting(func(s *models.Settings) *bool { return &s.CourseDetails.TimeCreated }),
	"course_details_showusersamount":    boolSetting(func(s *models.Settings) *bool { return &s.CourseDetails.UsersAmount }),
	"course_details_showrolesandamount": boolSetting(func(s *models.Settings) *bool { return &s.CourseDetails.RolesAndAmount }),
}

func intSetting(field func(*models.Settings) *int) settingApplier {
	return func(s *models.Settings, value string) bool {
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil || n <= 0 {
			return false
		}
		*field(s) = n
		return true
	}
}

func orderSetting(field func(*models.Settings) *string) settingApplier {
	return func(s *models.Settings, value string) bool {
		order := strings.ToUpper(strings.TrimSpace(value))
		if order != "ASC" && order != "DESC" {
			return false
		}
		*field(s) = order
		return true
	}
}

func boolSetting(field func(*models.Settings) *bool) settingApplier {
	return func(s *models.Settings, value string) bool {
		b, err := strconv.ParseBool(strings.TrimSpace(value))
		if err != nil {
			return false
		}
		*field(s) = b
		return true
	}
}

// SettingsService resolves the supporter display settings: configured
// defaults overridden by rows of the settings table.
type SettingsService struct {
	repo     settingRepository
	defaults models.Settings
	logger   *zap.Logger
}

// NewSettingsService constructs SettingsService.
func NewSettingsService(repo settingRepository, defaults config.SupporterConfig, logger *zap.Logger) *SettingsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SettingsService{repo: repo, defaults: DefaultSettings(defaults), logger: logger}
}

// DefaultSettings converts the configured supporter settings.
func DefaultSettings(cfg config.SupporterConfig) models.Settings {
	return models.Settings{
		UserDetailsPageLength:   cfg.UserDetailsPageLength,
		UserDetailsOrder:        cfg.UserDetailsOrder,
		CourseDetailsPageLength: cfg.CourseDetailsPageLength,
		CourseDetailsOrder:      cfg.CourseDetailsOrder,
		UserTablePageLength:     cfg.UserTablePageLength,
		UserTableOrder:          cfg.UserTableOrder,
		CourseTablePageLength:   cfg.CourseTablePageLength,
		CourseTableOrder:        cfg.CourseTableOrder,
		LevelLabels:             cfg.LevelLabels,
		UserDetails: models.UserDetailToggles{
			Username:     cfg.UserDetailsShowUsername,
			IDNumber:     cfg.UserDetailsShowIDNumber,
			Firstname:    cfg.UserDetailsShowFirstname,
			Lastname:     cfg.UserDetailsShowLastname,
			MailAddress:  cfg.UserDetailsShowMailAddress,
			TimeCreated:  cfg.UserDetailsShowTimeCreated,
			TimeModified: cfg.UserDetailsShowTimeModified,
			LastLogin:    cfg.UserDetailsShowLastLogin,
		},
		CourseDetails: models.CourseDetailToggles{
			Shortname:      cfg.CourseDetailsShowShortname,
			Fullname:       cfg.CourseDetailsShowFullname,
			Visible:        cfg.CourseDetailsShowVisible,
			Path:           cfg.CourseDetailsShowPath,
			TimeCreated:    cfg.CourseDetailsShowTimeCreated,
			UsersAmount:    cfg.CourseDetailsShowUsersAmount,
			RolesAndAmount: cfg.CourseDetailsShowRolesAndAmount,
		},
	}
}

// Effective returns the settings after applying stored overrides. Overrides
// that do not parse are logged and skipped.
func (s *SettingsService) Effective(ctx context.Context) (models.Settings, error) {
	settings := s.defaults
	if s.repo == nil {
		return settings, nil
	}
	keys := make([]string, 0, len(settingAppliers))
	for key := range settingAppliers {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	overrides, err := s.repo.ListByKeys(ctx, keys)
	if err != nil {
		return models.Settings{}, appErrors.Internal(err, "failed to load settings")
	}
	for _, o := range overrides {
		apply, ok := settingAppliers[o.Key]
		if !ok {
			continue
		}
		if !apply(&settings, o.Value) {
			s.logger.Warn("ignoring invalid setting override", zap.String("name", o.Key), zap.String("value", o.Value))
		}
	}
	return settings, nil
}

// Get returns the paging and ordering settings for an authenticated caller.
func (s *SettingsService) Get(ctx context.Context, caller models.Caller) (*dto.Settings, error) {
	if caller.UserID <= 0 {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "authentication required")
	}
	settings, err := s.Effective(ctx)
	if err != nil {
		return nil, err
	}
	view := shaper.Settings(settings)
	return &view, nil
}
