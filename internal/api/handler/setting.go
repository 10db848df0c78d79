package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/faciam-dev/gridbase/internal/api/schema"
	"github.com/faciam-dev/gridbase/internal/domain"
	"github.com/faciam-dev/gridbase/internal/events"
	"github.com/faciam-dev/gridbase/internal/rbac"
)

// SettingHandler serves the single global setting document.
type SettingHandler struct {
	Settings SettingStore
	Events   events.Emitter
}

type settingOutput struct {
	Body schema.Setting
}

type putSettingInput struct {
	Body schema.PutSetting
}

// RegisterSettings installs GET and PUT /setting.
func RegisterSettings(api huma.API, h *SettingHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "getSetting",
		Method:      http.MethodGet,
		Path:        "/setting",
		Summary:     "Read global settings",
		Tags:        []string{"Setting"},
		Metadata:    perm(rbac.PermReadSetting),
	}, h.get)
	huma.Register(api, huma.Operation{
		OperationID: "putSetting",
		Method:      http.MethodPut,
		Path:        "/setting",
		Summary:     "Replace global settings",
		Tags:        []string{"Setting"},
		Metadata:    perm(rbac.PermUpdateSetting),
	}, h.put)
}

func (h *SettingHandler) get(ctx context.Context, _ *struct{}) (*settingOutput, error) {
	s, err := h.Settings.Get(ctx)
	if err != nil {
		return nil, err
	}
	return &settingOutput{Body: schema.FromSetting(s)}, nil
}

func (h *SettingHandler) put(ctx context.Context, in *putSettingInput) (*settingOutput, error) {
	s := &domain.Setting{
		SiteName: in.Body.SiteName,
		Logo:     in.Body.Logo,
		Language: in.Body.Language,
		Extra:    in.Body.Extra,
	}
	if err := h.Settings.Put(ctx, s); err != nil {
		return nil, err
	}
	h.Events.Emit(ctx, events.Event{Name: "setting.updated", Time: time.Now(), Data: schema.FromSetting(s)})
	return &settingOutput{Body: schema.FromSetting(s)}, nil
}
