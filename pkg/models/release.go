package models

import "github.com/opnlabs/glci/pkg/reference"

// ReleaseAssetLink is one entry of release.assets.links.
type ReleaseAssetLink struct {
	Name     string `yaml:"name"`
	URL      string `yaml:"url"`
	FilePath string `yaml:"filepath"`
	LinkType string `yaml:"link_type" validate:"omitempty,oneof=other runbook image package"`
	Extra    map[string]any
}

// Release models the release keyword of a job.
type Release struct {
	TagName     string `yaml:"tag_name"`
	TagMessage  string `yaml:"tag_message"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Ref         string `yaml:"ref"`
	Milestones  []string
	ReleasedAt  string `yaml:"released_at"`
	Assets      []*ReleaseAssetLink
	Placeholder *reference.Reference
	Extra       map[string]any
}

func parseRelease(path string, v any, errs *SchemaError) *Release {
	if ref, ok := v.(*reference.Reference); ok {
		return &Release{Placeholder: ref}
	}
	raw, ok := asMap(path, v, errs)
	if !ok {
		return nil
	}
	r := &Release{}
	hasTag := false
	for _, key := range sortedKeys(raw) {
		item := raw[key]
		switch key {
		case "tag_name":
			r.TagName, _ = asString(joinPath(path, key), item, errs)
			hasTag = true
		case "tag_message":
			r.TagMessage, _ = asString(joinPath(path, key), item, errs)
		case "name":
			r.Name, _ = asString(joinPath(path, key), item, errs)
		case "description":
			r.Description, _ = asString(joinPath(path, key), item, errs)
		case "ref":
			r.Ref, _ = asString(joinPath(path, key), item, errs)
		case "milestones":
			r.Milestones, _ = asStringList(joinPath(path, key), item, errs)
		case "released_at":
			r.ReleasedAt, _ = asString(joinPath(path, key), item, errs)
		case "assets":
			r.Assets = parseReleaseAssets(joinPath(path, key), item, errs)
		default:
			r.Extra = setExtra(r.Extra, key, item)
		}
	}
	if !hasTag {
		errs.missing(path, "tag_name")
	}
	return r
}

func parseReleaseAssets(path string, v any, errs *SchemaError) []*ReleaseAssetLink {
	raw, ok := asMap(path, v, errs)
	if !ok {
		return nil
	}
	items, ok := raw["links"].([]any)
	if !ok {
		errs.missing(path, "links")
		return nil
	}
	out := make([]*ReleaseAssetLink, 0, len(items))
	for i, item := range items {
		itemPath := indexPath(joinPath(path, "links"), i)
		m, ok := asMap(itemPath, item, errs)
		if !ok {
			continue
		}
		link := &ReleaseAssetLink{}
		hasName, hasURL := false, false
		for _, key := range sortedKeys(m) {
			val := m[key]
			switch key {
			case "name":
				link.Name, _ = asString(joinPath(itemPath, key), val, errs)
				hasName = true
			case "url":
				link.URL, _ = asString(joinPath(itemPath, key), val, errs)
				hasURL = true
			case "filepath":
				link.FilePath, _ = asString(joinPath(itemPath, key), val, errs)
			case "link_type":
				link.LinkType, _ = asString(joinPath(itemPath, key), val, errs)
			default:
				link.Extra = setExtra(link.Extra, key, val)
			}
		}
		if !hasName {
			errs.missing(itemPath, "name")
		}
		if !hasURL {
			errs.missing(itemPath, "url")
		}
		checkTags(itemPath, link, errs)
		out = append(out, link)
	}
	return out
}

func (r *Release) serialize() any {
	if r.Placeholder != nil {
		return r.Placeholder
	}
	out := map[string]any{"tag_name": r.TagName}
	if r.TagMessage != "" {
		out["tag_message"] = r.TagMessage
	}
	if r.Name != "" {
		out["name"] = r.Name
	}
	if r.Description != "" {
		out["description"] = r.Description
	}
	if r.Ref != "" {
		out["ref"] = r.Ref
	}
	if r.Milestones != nil {
		out["milestones"] = r.Milestones
	}
	if r.ReleasedAt != "" {
		out["released_at"] = r.ReleasedAt
	}
	if r.Assets != nil {
		links := make([]any, 0, len(r.Assets))
		for _, link := range r.Assets {
			links = append(links, link.serialize())
		}
		out["assets"] = map[string]any{"links": links}
	}
	mergeExtra(out, r.Extra)
	return out
}

func (l *ReleaseAssetLink) serialize() any {
	out := map[string]any{"name": l.Name, "url": l.URL}
	if l.FilePath != "" {
		out["filepath"] = l.FilePath
	}
	if l.LinkType != "" {
		out["link_type"] = l.LinkType
	}
	mergeExtra(out, l.Extra)
	return out
}
