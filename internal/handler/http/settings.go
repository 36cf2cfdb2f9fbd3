package http

import (
	"encoding/json"
	"net/http"

	"github.com/cmlabs-hris/timesheet-points-go/internal/domain/points"
	"github.com/cmlabs-hris/timesheet-points-go/internal/handler/http/response"
)

type SettingsHandler interface {
	GetSettings(w http.ResponseWriter, r *http.Request)
	SaveSettings(w http.ResponseWriter, r *http.Request)
}

type settingsHandlerImpl struct {
	settingsRepo points.SettingsRepository
}

func NewSettingsHandler(settingsRepo points.SettingsRepository) SettingsHandler {
	return &settingsHandlerImpl{
		settingsRepo: settingsRepo,
	}
}

type settingsResponse struct {
	ChatID          string             `json:"chat_id"`
	ThreadID        string             `json:"thread_id,omitempty"`
	HolidayCalendar string             `json:"holiday_calendar"`
	AvgWorkingHours float64            `json:"avg_working_hours"`
	AvgWordCount    int                `json:"avg_word_count"`
	Rank            int                `json:"rank"`
	DailyEnabled    bool               `json:"daily_enabled"`
	WeeklyEnabled   bool               `json:"weekly_enabled"`
	MonthlyEnabled  bool               `json:"monthly_enabled"`
	Disabled        bool               `json:"disabled"`
	HasToken        bool               `json:"has_token"`
	Criteria        []points.Criterion `json:"criteria"`
}

// The bot token never leaves the API; has_token tells the caller whether
// one is stored.
func toSettingsResponse(set points.Settings) settingsResponse {
	return settingsResponse{
		ChatID:          set.ChatID,
		ThreadID:        set.ThreadID,
		HolidayCalendar: set.HolidayCalendar,
		AvgWorkingHours: set.AvgWorkingHours,
		AvgWordCount:    set.AvgWordCount,
		Rank:            set.Rank,
		DailyEnabled:    set.DailyEnabled,
		WeeklyEnabled:   set.WeeklyEnabled,
		MonthlyEnabled:  set.MonthlyEnabled,
		Disabled:        set.Disabled,
		HasToken:        set.Token != "",
		Criteria:        set.Criteria,
	}
}

// GetSettings handles GET /settings
func (h *settingsHandlerImpl) GetSettings(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	set, err := h.settingsRepo.Get(ctx)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, toSettingsResponse(set))
}

// SaveSettings handles PUT /settings
func (h *settingsHandlerImpl) SaveSettings(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req points.SaveSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	if err := h.settingsRepo.Save(ctx, req.Settings()); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "settings saved", toSettingsResponse(req.Settings()))
}
