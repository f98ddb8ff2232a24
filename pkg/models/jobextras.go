package models

// Secret is one entry of the secrets mapping. Exactly one provider
// block (vault, file-based providers ride in Extra) per secret.
type Secret struct {
	Vault            any
	File             *bool
	Token            string `yaml:"token"`
	GCPSecretManager any    `yaml:"gcp_secret_manager"`
	AzureKeyVault    any    `yaml:"azure_key_vault"`
	Extra            map[string]any
}

// IDToken is one entry of the id_tokens mapping; aud coerces from a
// scalar to a one-element list.
type IDToken struct {
	Aud   []string
	Extra map[string]any
}

// Hooks models the hooks keyword.
type Hooks struct {
	PreGetSourcesScript *Commands
	Extra               map[string]any
}

// Identity models the identity keyword: a provider name, or a mapping
// kept verbatim for provider-specific configuration.
type Identity struct {
	Provider string
	Config   map[string]any
}

// DastConfiguration models the dast_configuration keyword.
type DastConfiguration struct {
	SiteProfile    string
	ScannerProfile string
	Extra          map[string]any
}

// BoolOrList is the shape of the inherit sub-keys: a boolean switch or
// an explicit list of names.
type BoolOrList struct {
	All   *bool
	Names []string
}

// Inherit models the inherit keyword.
type Inherit struct {
	Default   *BoolOrList
	Variables *BoolOrList
	Extra     map[string]any
}

// AllowFailure models allow_failure: a boolean or an exit_codes form.
type AllowFailure struct {
	Value     *bool
	ExitCodes []int
	Extra     map[string]any
}

// TriggerForward is the forward sub-block of a trigger.
type TriggerForward struct {
	YamlVariables     *bool
	PipelineVariables *bool
	Extra             map[string]any
}

// Trigger models the trigger keyword: a bare project path or the
// object form with project/include and strategy.
type Trigger struct {
	Project  string
	Branch   string
	Strategy string `yaml:"strategy" validate:"omitempty,oneof=depend"`
	Include  any
	Forward  *TriggerForward `validate:"-"`
	Extra    map[string]any
	scalar   bool
}

func parseSecrets(path string, v any, errs *SchemaError) map[string]*Secret {
	raw, ok := asMap(path, v, errs)
	if !ok {
		return nil
	}
	out := make(map[string]*Secret, len(raw))
	for _, name := range sortedKeys(raw) {
		secretPath := joinPath(path, name)
		m, ok := asMap(secretPath, raw[name], errs)
		if !ok {
			continue
		}
		s := &Secret{}
		for _, key := range sortedKeys(m) {
			item := m[key]
			switch key {
			case "vault":
				s.Vault = item
			case "file":
				s.File, _ = asBool(joinPath(secretPath, key), item, errs)
			case "token":
				s.Token, _ = asString(joinPath(secretPath, key), item, errs)
			case "gcp_secret_manager":
				s.GCPSecretManager = item
			case "azure_key_vault":
				s.AzureKeyVault = item
			default:
				s.Extra = setExtra(s.Extra, key, item)
			}
		}
		out[name] = s
	}
	return out
}

func parseIDTokens(path string, v any, errs *SchemaError) map[string]*IDToken {
	raw, ok := asMap(path, v, errs)
	if !ok {
		return nil
	}
	out := make(map[string]*IDToken, len(raw))
	for _, name := range sortedKeys(raw) {
		tokenPath := joinPath(path, name)
		m, ok := asMap(tokenPath, raw[name], errs)
		if !ok {
			continue
		}
		t := &IDToken{}
		hasAud := false
		for _, key := range sortedKeys(m) {
			item := m[key]
			switch key {
			case "aud":
				t.Aud, _ = asStringList(joinPath(tokenPath, key), item, errs)
				hasAud = true
			default:
				t.Extra = setExtra(t.Extra, key, item)
			}
		}
		if !hasAud {
			errs.missing(tokenPath, "aud")
		}
		out[name] = t
	}
	return out
}

func parseHooks(path string, v any, errs *SchemaError) *Hooks {
	raw, ok := asMap(path, v, errs)
	if !ok {
		return nil
	}
	h := &Hooks{}
	for _, key := range sortedKeys(raw) {
		item := raw[key]
		switch key {
		case "pre_get_sources_script":
			h.PreGetSourcesScript = parseCommands(joinPath(path, key), item, errs)
		default:
			h.Extra = setExtra(h.Extra, key, item)
		}
	}
	return h
}

func parseIdentity(path string, v any, errs *SchemaError) *Identity {
	switch val := v.(type) {
	case string:
		return &Identity{Provider: val}
	case map[string]any:
		return &Identity{Config: val}
	default:
		errs.mismatch(path, "a string or a mapping", v)
		return nil
	}
}

func (i *Identity) serialize() any {
	if i.Config != nil {
		return i.Config
	}
	return i.Provider
}

func parseDastConfiguration(path string, v any, errs *SchemaError) *DastConfiguration {
	raw, ok := asMap(path, v, errs)
	if !ok {
		return nil
	}
	d := &DastConfiguration{}
	for _, key := range sortedKeys(raw) {
		item := raw[key]
		switch key {
		case "site_profile":
			d.SiteProfile, _ = asString(joinPath(path, key), item, errs)
		case "scanner_profile":
			d.ScannerProfile, _ = asString(joinPath(path, key), item, errs)
		default:
			d.Extra = setExtra(d.Extra, key, item)
		}
	}
	return d
}

func parseInherit(path string, v any, errs *SchemaError) *Inherit {
	raw, ok := asMap(path, v, errs)
	if !ok {
		return nil
	}
	in := &Inherit{}
	for _, key := range sortedKeys(raw) {
		item := raw[key]
		switch key {
		case "default":
			in.Default = parseBoolOrList(joinPath(path, key), item, errs)
		case "variables":
			in.Variables = parseBoolOrList(joinPath(path, key), item, errs)
		default:
			in.Extra = setExtra(in.Extra, key, item)
		}
	}
	return in
}

func parseBoolOrList(path string, v any, errs *SchemaError) *BoolOrList {
	switch val := v.(type) {
	case bool:
		return &BoolOrList{All: &val}
	case []any:
		names, ok := asStringList(path, val, errs)
		if !ok {
			return nil
		}
		return &BoolOrList{Names: names}
	default:
		errs.mismatch(path, "a boolean or a list of names", v)
		return nil
	}
}

func parseAllowFailure(path string, v any, errs *SchemaError) *AllowFailure {
	switch val := v.(type) {
	case bool:
		return &AllowFailure{Value: &val}
	case map[string]any:
		a := &AllowFailure{}
		hasCodes := false
		for _, key := range sortedKeys(val) {
			item := val[key]
			switch key {
			case "exit_codes":
				a.ExitCodes, _ = asIntList(joinPath(path, key), item, errs)
				hasCodes = true
			default:
				a.Extra = setExtra(a.Extra, key, item)
			}
		}
		if !hasCodes {
			errs.missing(path, "exit_codes")
		}
		return a
	default:
		errs.mismatch(path, "a boolean or a mapping with exit_codes", v)
		return nil
	}
}

func parseTrigger(path string, v any, errs *SchemaError) *Trigger {
	switch val := v.(type) {
	case string:
		return &Trigger{Project: val, scalar: true}
	case map[string]any:
		t := &Trigger{}
		for _, key := range sortedKeys(val) {
			item := val[key]
			switch key {
			case "project":
				t.Project, _ = asString(joinPath(path, key), item, errs)
			case "branch":
				t.Branch, _ = asString(joinPath(path, key), item, errs)
			case "strategy":
				t.Strategy, _ = asString(joinPath(path, key), item, errs)
			case "include":
				t.Include = item
			case "forward":
				t.Forward = parseTriggerForward(joinPath(path, key), item, errs)
			default:
				t.Extra = setExtra(t.Extra, key, item)
			}
		}
		if t.Project != "" && t.Include != nil {
			errs.invariant(path, "cannot specify both project and include")
		}
		checkTags(path, t, errs)
		return t
	default:
		errs.mismatch(path, "a project path or a mapping", v)
		return nil
	}
}

func parseTriggerForward(path string, v any, errs *SchemaError) *TriggerForward {
	raw, ok := asMap(path, v, errs)
	if !ok {
		return nil
	}
	f := &TriggerForward{}
	for _, key := range sortedKeys(raw) {
		item := raw[key]
		switch key {
		case "yaml_variables":
			f.YamlVariables, _ = asBool(joinPath(path, key), item, errs)
		case "pipeline_variables":
			f.PipelineVariables, _ = asBool(joinPath(path, key), item, errs)
		default:
			f.Extra = setExtra(f.Extra, key, item)
		}
	}
	return f
}

func serializeSecrets(secrets map[string]*Secret) any {
	out := make(map[string]any, len(secrets))
	for name, s := range secrets {
		m := map[string]any{}
		if s.Vault != nil {
			m["vault"] = s.Vault
		}
		if s.File != nil {
			m["file"] = *s.File
		}
		if s.Token != "" {
			m["token"] = s.Token
		}
		if s.GCPSecretManager != nil {
			m["gcp_secret_manager"] = s.GCPSecretManager
		}
		if s.AzureKeyVault != nil {
			m["azure_key_vault"] = s.AzureKeyVault
		}
		mergeExtra(m, s.Extra)
		out[name] = m
	}
	return out
}

func serializeIDTokens(tokens map[string]*IDToken) any {
	out := make(map[string]any, len(tokens))
	for name, t := range tokens {
		m := map[string]any{"aud": t.Aud}
		mergeExtra(m, t.Extra)
		out[name] = m
	}
	return out
}

func (h *Hooks) serialize() any {
	out := map[string]any{}
	if h.PreGetSourcesScript != nil {
		out["pre_get_sources_script"] = h.PreGetSourcesScript.serialize()
	}
	mergeExtra(out, h.Extra)
	return out
}

func (d *DastConfiguration) serialize() any {
	out := map[string]any{}
	if d.SiteProfile != "" {
		out["site_profile"] = d.SiteProfile
	}
	if d.ScannerProfile != "" {
		out["scanner_profile"] = d.ScannerProfile
	}
	mergeExtra(out, d.Extra)
	return out
}

func (in *Inherit) serialize() any {
	out := map[string]any{}
	if in.Default != nil {
		out["default"] = in.Default.serialize()
	}
	if in.Variables != nil {
		out["variables"] = in.Variables.serialize()
	}
	mergeExtra(out, in.Extra)
	return out
}

func (b *BoolOrList) serialize() any {
	if b.All != nil {
		return *b.All
	}
	return b.Names
}

func (a *AllowFailure) serialize() any {
	if a.Value != nil {
		return *a.Value
	}
	out := map[string]any{"exit_codes": a.ExitCodes}
	mergeExtra(out, a.Extra)
	return out
}

func (t *Trigger) serialize() any {
	if t.scalar {
		return t.Project
	}
	out := map[string]any{}
	if t.Project != "" {
		out["project"] = t.Project
	}
	if t.Branch != "" {
		out["branch"] = t.Branch
	}
	if t.Strategy != "" {
		out["strategy"] = t.Strategy
	}
	if t.Include != nil {
		out["include"] = t.Include
	}
	if t.Forward != nil {
		f := map[string]any{}
		if t.Forward.YamlVariables != nil {
			f["yaml_variables"] = *t.Forward.YamlVariables
		}
		if t.Forward.PipelineVariables != nil {
			f["pipeline_variables"] = *t.Forward.PipelineVariables
		}
		mergeExtra(f, t.Forward.Extra)
		out["forward"] = f
	}
	mergeExtra(out, t.Extra)
	return out
}
