package models

import "github.com/opnlabs/glci/pkg/reference"

// KubernetesConfig is the kubernetes sub-block of an environment.
type KubernetesConfig struct {
	Namespace               string
	ServiceAccountOverwrite string `yaml:"service_account_overwrite"`
	ProxyURL                string `yaml:"proxy_url"`
	Extra                   map[string]any
}

// Environment models the environment keyword: a bare name or the
// object form with url, action and deployment settings.
type Environment struct {
	Name           string            `yaml:"name"`
	URL            string            `yaml:"url"`
	OnStop         string            `yaml:"on_stop"`
	Action         string            `yaml:"action" validate:"omitempty,oneof=start prepare stop verify access"`
	AutoStopIn     string            `yaml:"auto_stop_in"`
	DeploymentTier string            `yaml:"deployment_tier" validate:"omitempty,oneof=production staging testing development other"`
	Kubernetes     *KubernetesConfig `validate:"-"`
	Ref            *reference.Reference
	Extra          map[string]any
	scalar         bool
}

func parseEnvironment(path string, v any, errs *SchemaError) *Environment {
	switch val := v.(type) {
	case *reference.Reference:
		return &Environment{Ref: val}
	case string:
		return &Environment{Name: val, scalar: true}
	case map[string]any:
		env := &Environment{}
		hasName := false
		for _, key := range sortedKeys(val) {
			item := val[key]
			switch key {
			case "name":
				env.Name, _ = asString(joinPath(path, key), item, errs)
				hasName = true
			case "url":
				env.URL, _ = asString(joinPath(path, key), item, errs)
			case "on_stop":
				env.OnStop, _ = asString(joinPath(path, key), item, errs)
			case "action":
				env.Action, _ = asString(joinPath(path, key), item, errs)
			case "auto_stop_in":
				if s, ok := asString(joinPath(path, key), item, errs); ok {
					env.AutoStopIn = s
					checkDuration(path, key, s, true, errs)
				}
			case "deployment_tier":
				env.DeploymentTier, _ = asString(joinPath(path, key), item, errs)
			case "kubernetes":
				env.Kubernetes = parseKubernetes(joinPath(path, key), item, errs)
			default:
				env.Extra = setExtra(env.Extra, key, item)
			}
		}
		if !hasName {
			errs.missing(path, "name")
		}
		checkTags(path, env, errs)
		return env
	default:
		errs.mismatch(path, "a string or a mapping", v)
		return nil
	}
}

func parseKubernetes(path string, v any, errs *SchemaError) *KubernetesConfig {
	raw, ok := asMap(path, v, errs)
	if !ok {
		return nil
	}
	k := &KubernetesConfig{}
	for _, key := range sortedKeys(raw) {
		item := raw[key]
		switch key {
		case "namespace":
			k.Namespace, _ = asString(joinPath(path, key), item, errs)
		case "service_account_overwrite":
			k.ServiceAccountOverwrite, _ = asString(joinPath(path, key), item, errs)
		case "proxy_url":
			k.ProxyURL, _ = asString(joinPath(path, key), item, errs)
		default:
			k.Extra = setExtra(k.Extra, key, item)
		}
	}
	return k
}

func (e *Environment) serialize() any {
	if e.Ref != nil {
		return e.Ref
	}
	if e.scalar {
		return e.Name
	}
	out := map[string]any{"name": e.Name}
	if e.URL != "" {
		out["url"] = e.URL
	}
	if e.OnStop != "" {
		out["on_stop"] = e.OnStop
	}
	if e.Action != "" {
		out["action"] = e.Action
	}
	if e.AutoStopIn != "" {
		out["auto_stop_in"] = e.AutoStopIn
	}
	if e.DeploymentTier != "" {
		out["deployment_tier"] = e.DeploymentTier
	}
	if e.Kubernetes != nil {
		out["kubernetes"] = e.Kubernetes.serialize()
	}
	mergeExtra(out, e.Extra)
	return out
}

func (k *KubernetesConfig) serialize() any {
	out := map[string]any{}
	if k.Namespace != "" {
		out["namespace"] = k.Namespace
	}
	if k.ServiceAccountOverwrite != "" {
		out["service_account_overwrite"] = k.ServiceAccountOverwrite
	}
	if k.ProxyURL != "" {
		out["proxy_url"] = k.ProxyURL
	}
	mergeExtra(out, k.Extra)
	return out
}
