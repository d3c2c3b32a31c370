package handler

import (
	"database/sql"
	"errors"

	"github.com/caresupportcom/care-schedule/backend/internal/analytics"
	"github.com/caresupportcom/care-schedule/backend/internal/config"
	"github.com/caresupportcom/care-schedule/backend/internal/coverage"
	"github.com/caresupportcom/care-schedule/backend/internal/domain"
	"github.com/caresupportcom/care-schedule/backend/internal/repository"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	zh_translations "github.com/go-playground/validator/v10/translations/zh"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
)

type Handler struct {
	validate      *validator.Validate
	config        *config.Config
	repository    *repository.Repository
	translator    ut.Translator
	notifyChannel *amqp.Channel
	redisClient   *redis.Client
	tracker       *analytics.Tracker

	Mux *chi.Mux
}

func NewHandler(cfg *config.Config, repo *repository.Repository, notifyCh *amqp.Channel, rdb *redis.Client, tracker *analytics.Tracker) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	zh := zh.New()
	uni := ut.New(zh, zh)
	trans, _ := uni.GetTranslator("zh")
	if err := zh_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	return &Handler{
		validate:      validate,
		config:        cfg,
		repository:    repo,
		translator:    trans,
		notifyChannel: notifyCh,
		redisClient:   rdb,
		tracker:       tracker,

		Mux: chi.NewRouter(),
	}, nil
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)

	// 认证相关
	h.Mux.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.Login)
		r.Post("/logout", h.Logout)
		r.Route("/reset-password", func(r chi.Router) {
			r.Post("/require", h.RequireResetPassword)
			r.Post("/confirm", h.ConfirmResetPassword)
		})
	})

	// 以下 API 必须要在登录后才允许调用
	h.Mux.Group(func(r chi.Router) {
		r.Use(h.auth)
		r.Route("/my-info", func(r chi.Router) {
			r.Use(h.myInfo)
			r.Get("/", h.GetMyInfo)
			r.Get("/shifts", h.GetMyUpcomingShifts)
			r.Patch("/password", h.UpdateMyPassword)
			r.Route("/update-email", func(r chi.Router) {
				r.Post("/require", h.RequireUpdateEmail)
				r.Post("/confirm", h.ConfirmUpdateEmail)
			})
		})

		r.Route("/users", func(r chi.Router) {
			r.With(h.RequiredRole([]domain.Role{domain.RoleCoordinator})).Post("/", h.CreateUser)
			r.Get("/", h.GetAllUserInfo) // 家庭成员之间可以互相查看基本信息
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.userInfo)
				r.Get("/", h.GetUserInfo)
				r.With(h.preventOperateInitialCoordinator).With(h.RequiredRole([]domain.Role{domain.RoleCoordinator})).Patch("/", h.UpdateUser)
				r.With(h.preventOperateInitialCoordinator).With(h.RequiredRole([]domain.Role{domain.RoleCoordinator})).Delete("/", h.DeleteUser)
				r.With(h.RequiredRole([]domain.Role{domain.RoleCoordinator})).Patch("/password", h.UpdateUserPassword)
			})
		})

		r.Route("/shifts", func(r chi.Router) {
			r.With(h.RequiredRole([]domain.Role{domain.RoleCoordinator})).Post("/", h.CreateShift)
			r.With(h.RequiredRole([]domain.Role{domain.RoleCoordinator})).Post("/from-template", h.CreateShiftFromTemplate)
			r.Get("/", h.GetShifts)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.careShift)
				r.Get("/", h.GetShift)
				r.With(h.RequiredRole([]domain.Role{domain.RoleCoordinator})).Patch("/", h.UpdateShift)
				r.With(h.RequiredRole([]domain.Role{domain.RoleCoordinator})).Delete("/", h.DeleteShift)
				r.Group(func(r chi.Router) {
					r.Use(h.myInfo)
					r.Post("/claim", h.ClaimShift)
					r.Post("/start", h.StartShift)
					r.Post("/complete", h.CompleteShift)
					r.Post("/cancel", h.CancelShift)
				})
				r.Get("/handoffs", h.GetShiftHandoffs)
			})
		})

		r.Route("/shift-templates", func(r chi.Router) {
			r.With(h.RequiredRole([]domain.Role{domain.RoleCoordinator})).Post("/", h.CreateShiftTemplate)
			r.Get("/", h.GetAllShiftTemplates)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.shiftTemplate)
				r.Get("/", h.GetShiftTemplate)
				r.With(h.RequiredRole([]domain.Role{domain.RoleCoordinator})).Patch("/", h.UpdateShiftTemplate)
				r.With(h.RequiredRole([]domain.Role{domain.RoleCoordinator})).Delete("/", h.DeleteShiftTemplate)
			})
		})

		r.Route("/availability", func(r chi.Router) {
			r.Get("/caregivers", h.GetAvailableCaregivers)
			r.Route("/{userID}", func(r chi.Router) {
				r.Get("/", h.GetAvailability)
				r.Patch("/status", h.UpdateAvailabilityStatus)
				r.Patch("/override", h.SetAvailabilityOverride)
				r.Put("/overrides", h.SetAvailabilityOverrides)
				r.Put("/weekly-pattern", h.UpdateWeeklyPattern)
			})
		})

		r.Route("/coverage", func(r chi.Router) {
			r.With(h.RequiredRole([]domain.Role{domain.RoleCoordinator})).Post("/scan", h.ScanCoverage)
			r.Get("/gaps", h.GetGaps)
			r.Route("/gaps/{id}", func(r chi.Router) {
				r.Use(h.coverageGap)
				r.Get("/", h.GetGap)
				r.With(h.RequiredRole([]domain.Role{domain.RoleCoordinator})).Post("/request", h.RequestCoverage)
				r.With(h.RequiredRole([]domain.Role{domain.RoleCoordinator})).Post("/resolve", h.ResolveGap)
			})
			r.Get("/metrics", h.GetCoverageMetrics)
			r.Get("/recommendations", h.GetRecommendations)
			r.Get("/preferences", h.GetPreferences)
			r.With(h.RequiredRole([]domain.Role{domain.RoleCoordinator})).Put("/preferences", h.SavePreferences)
		})

		r.Route("/handoffs", func(r chi.Router) {
			r.Use(h.myInfo)
			r.Post("/", h.CreateHandoff)
			r.Get("/{id}", h.GetHandoff)
		})
	})
}

// policy 根据配置（或请求中的 policy 参数）返回要使用的检测策略
// 偏好策略需要加载覆盖要求配置，没有配置时退回固定时段策略
func (h *Handler) policy(name string) (*coverage.Policy, error) {
	if name == "" {
		name = h.config.Coverage.DefaultPolicy
	}

	if name != coverage.PolicyPreference {
		return coverage.FixedBlockPolicy(), nil
	}

	prefs, err := h.repository.GetPreferences()
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return coverage.FixedBlockPolicy(), nil
		}
		return nil, err
	}
	return coverage.PreferencePolicy(prefs)
}
