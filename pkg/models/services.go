package models

import "github.com/opnlabs/glci/pkg/reference"

// DockerConfig is the docker sub-block of image and service entries.
type DockerConfig struct {
	Platform string
	User     string
	Extra    map[string]any
}

// Image models the image keyword: a bare image name or the object
// form with entrypoint and pull policy.
type Image struct {
	Name       string   `yaml:"name"`
	Entrypoint []string `yaml:"entrypoint"`
	PullPolicy []string `yaml:"pull_policy" validate:"omitempty,dive,oneof=always never if-not-present"`
	Docker     *DockerConfig
	Ref        *reference.Reference
	Extra      map[string]any
	scalar     bool
}

// Service models one entry of the services list. It extends Image
// with alias, command and per-service variables.
type Service struct {
	Name       string   `yaml:"name"`
	Alias      string   `yaml:"alias"`
	Entrypoint []string `yaml:"entrypoint"`
	Command    []string `yaml:"command"`
	PullPolicy []string `yaml:"pull_policy" validate:"omitempty,dive,oneof=always never if-not-present"`
	Variables  map[string]any
	Docker     *DockerConfig
	Ref        *reference.Reference
	Extra      map[string]any
	scalar     bool
}

func parseImage(path string, v any, errs *SchemaError) *Image {
	switch val := v.(type) {
	case *reference.Reference:
		return &Image{Ref: val}
	case string:
		return &Image{Name: val, scalar: true}
	case map[string]any:
		img := &Image{}
		hasName := false
		for _, key := range sortedKeys(val) {
			item := val[key]
			switch key {
			case "name":
				img.Name, _ = asString(joinPath(path, key), item, errs)
				hasName = true
			case "entrypoint":
				img.Entrypoint, _ = asStringList(joinPath(path, key), item, errs)
			case "pull_policy":
				img.PullPolicy, _ = asStringList(joinPath(path, key), item, errs)
			case "docker":
				img.Docker = parseDockerConfig(joinPath(path, key), item, errs)
			default:
				img.Extra = setExtra(img.Extra, key, item)
			}
		}
		if !hasName {
			errs.missing(path, "name")
		}
		checkTags(path, img, errs)
		return img
	default:
		errs.mismatch(path, "a string or a mapping", v)
		return nil
	}
}

// parseServices accepts a single name or a list whose entries are
// names, mappings or reference placeholders.
func parseServices(path string, v any, errs *SchemaError) []*Service {
	switch val := v.(type) {
	case *reference.Reference:
		return []*Service{{Ref: val}}
	case string:
		return []*Service{{Name: val, scalar: true}}
	case []any:
		out := make([]*Service, 0, len(val))
		for i, item := range val {
			svc := parseService(indexPath(path, i), item, errs)
			if svc != nil {
				out = append(out, svc)
			}
		}
		return out
	default:
		errs.mismatch(path, "a string or a list", v)
		return nil
	}
}

func parseService(path string, v any, errs *SchemaError) *Service {
	switch val := v.(type) {
	case *reference.Reference:
		return &Service{Ref: val}
	case string:
		return &Service{Name: val, scalar: true}
	case map[string]any:
		svc := &Service{}
		hasName := false
		for _, key := range sortedKeys(val) {
			item := val[key]
			switch key {
			case "name":
				svc.Name, _ = asString(joinPath(path, key), item, errs)
				hasName = true
			case "alias":
				svc.Alias, _ = asString(joinPath(path, key), item, errs)
			case "entrypoint":
				svc.Entrypoint, _ = asStringList(joinPath(path, key), item, errs)
			case "command":
				svc.Command, _ = asStringList(joinPath(path, key), item, errs)
			case "pull_policy":
				svc.PullPolicy, _ = asStringList(joinPath(path, key), item, errs)
			case "variables":
				svc.Variables, _ = asMap(joinPath(path, key), item, errs)
			case "docker":
				svc.Docker = parseDockerConfig(joinPath(path, key), item, errs)
			default:
				svc.Extra = setExtra(svc.Extra, key, item)
			}
		}
		if !hasName {
			errs.missing(path, "name")
		}
		checkTags(path, svc, errs)
		return svc
	default:
		errs.mismatch(path, "a string or a mapping", v)
		return nil
	}
}

func parseDockerConfig(path string, v any, errs *SchemaError) *DockerConfig {
	raw, ok := asMap(path, v, errs)
	if !ok {
		return nil
	}
	d := &DockerConfig{}
	for _, key := range sortedKeys(raw) {
		item := raw[key]
		switch key {
		case "platform":
			d.Platform, _ = asString(joinPath(path, key), item, errs)
		case "user":
			d.User, _ = asString(joinPath(path, key), item, errs)
		default:
			d.Extra = setExtra(d.Extra, key, item)
		}
	}
	return d
}

func (i *Image) serialize() any {
	if i.Ref != nil {
		return i.Ref
	}
	if i.scalar {
		return i.Name
	}
	out := map[string]any{"name": i.Name}
	if i.Entrypoint != nil {
		out["entrypoint"] = i.Entrypoint
	}
	if i.PullPolicy != nil {
		out["pull_policy"] = i.PullPolicy
	}
	if i.Docker != nil {
		out["docker"] = i.Docker.serialize()
	}
	mergeExtra(out, i.Extra)
	return out
}

func serializeServices(services []*Service) []any {
	out := make([]any, 0, len(services))
	for _, s := range services {
		out = append(out, s.serialize())
	}
	return out
}

func (s *Service) serialize() any {
	if s.Ref != nil {
		return s.Ref
	}
	if s.scalar {
		return s.Name
	}
	out := map[string]any{"name": s.Name}
	if s.Alias != "" {
		out["alias"] = s.Alias
	}
	if s.Entrypoint != nil {
		out["entrypoint"] = s.Entrypoint
	}
	if s.Command != nil {
		out["command"] = s.Command
	}
	if s.PullPolicy != nil {
		out["pull_policy"] = s.PullPolicy
	}
	if s.Variables != nil {
		out["variables"] = s.Variables
	}
	if s.Docker != nil {
		out["docker"] = s.Docker.serialize()
	}
	mergeExtra(out, s.Extra)
	return out
}

func (d *DockerConfig) serialize() any {
	out := map[string]any{}
	if d.Platform != "" {
		out["platform"] = d.Platform
	}
	if d.User != "" {
		out["user"] = d.User
	}
	mergeExtra(out, d.Extra)
	return out
}
