package settings

import (
	"context"
	"os"
	"strings"
	"time"

	"family-hub/internal/model"

	"github.com/spf13/viper"
)

// Reader returns the language-model configuration in effect for a workspace.
// Implementations are read on every request; a change applies to the next turn.
type Reader interface {
	ProviderConfig(ctx context.Context, workspaceID string) (model.ProviderConfig, error)
}

// Keys read by the viper-backed Reader. Workspace overrides live under
// assistant.workspaces.<workspace id>.provider.
const (
	keyProvider       = "assistant.provider"
	keyWorkspaces     = "assistant.workspaces"
	defaultTimeout    = 4 * time.Second
	defaultMaxTokens  = 512
	defaultTemp       = 0.1
	providerNameKey   = "name"
	providerModelKey  = "model"
	providerKeyKey    = "api_key"
	providerURLKey    = "base_url"
	providerTempKey   = "temperature"
	providerTokensKey = "max_tokens"
	providerTimeKey   = "timeout"
)

type viperReader struct {
	v *viper.Viper
}

// NewViper creates a Reader over v. The same viper instance loaded by config.Load can be passed in.
func NewViper(v *viper.Viper) Reader {
	if v == nil {
		v = viper.GetViper()
	}
	return &viperReader{v: v}
}

func (r *viperReader) ProviderConfig(ctx context.Context, workspaceID string) (model.ProviderConfig, error) {
	if err := ctx.Err(); err != nil {
		return model.ProviderConfig{}, err
	}

	cfg := r.read(keyProvider, model.ProviderConfig{
		Temperature: defaultTemp,
		MaxTokens:   defaultMaxTokens,
		Timeout:     defaultTimeout,
	})
	if workspaceID != "" {
		cfg = r.read(keyWorkspaces+"."+strings.ToLower(workspaceID)+".provider", cfg)
	}
	return cfg, nil
}

// read overlays every key set under prefix onto base.
func (r *viperReader) read(prefix string, base model.ProviderConfig) model.ProviderConfig {
	key := func(k string) string { return prefix + "." + k }

	if r.v.IsSet(key(providerNameKey)) {
		base.Provider = r.v.GetString(key(providerNameKey))
	}
	if r.v.IsSet(key(providerModelKey)) {
		base.Model = r.v.GetString(key(providerModelKey))
	}
	if r.v.IsSet(key(providerKeyKey)) {
		base.APIKey = ExpandEnv(r.v, r.v.GetString(key(providerKeyKey)))
	}
	if r.v.IsSet(key(providerURLKey)) {
		base.BaseURL = r.v.GetString(key(providerURLKey))
	}
	if r.v.IsSet(key(providerTempKey)) {
		base.Temperature = r.v.GetFloat64(key(providerTempKey))
	}
	if r.v.IsSet(key(providerTokensKey)) {
		base.MaxTokens = r.v.GetInt(key(providerTokensKey))
	}
	if r.v.IsSet(key(providerTimeKey)) {
		if d := r.v.GetDuration(key(providerTimeKey)); d > 0 {
			base.Timeout = d
		}
	}
	return base
}

// ExpandEnv resolves a value of the form ${VAR_NAME} through viper, then the
// process environment. Other values are returned unchanged.
func ExpandEnv(v *viper.Viper, value string) string {
	if !strings.HasPrefix(value, "${") || !strings.HasSuffix(value, "}") {
		return value
	}
	name := value[2 : len(value)-1]
	if s := v.GetString(name); s != "" {
		return s
	}
	if s := v.GetString(strings.ToLower(name)); s != "" {
		return s
	}
	return os.Getenv(name)
}

type staticReader struct {
	cfg model.ProviderConfig
}

// NewStatic returns a Reader that answers cfg for every workspace.
func NewStatic(cfg model.ProviderConfig) Reader {
	return staticReader{cfg: cfg}
}

func (r staticReader) ProviderConfig(ctx context.Context, workspaceID string) (model.ProviderConfig, error) {
	return r.cfg, nil
}
