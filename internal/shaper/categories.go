package shaper

import (
	"strconv"
	"strings"

	"github.com/noah-isme/course-supporter-api/internal/dto"
	"github.com/noah-isme/course-supporter-api/internal/models"
)

const maxLevelLabels = 5

// CategoryIndex resolves category ids to records.
type CategoryIndex map[int64]models.Category

// NewCategoryIndex indexes categories by id.
func NewCategoryIndex(categories []models.Category) CategoryIndex {
	index := make(CategoryIndex, len(categories))
	for _, category := range categories {
		index[category.ID] = category
	}
	return index
}

// PathNames resolves every segment of path to a category name. Unresolvable
// segments keep their position as "".
func (ix CategoryIndex) PathNames(path string) []string {
	segments := strings.Split(path, "/")
	names := make([]string, 0, len(segments))
	for _, segment := range segments {
		if segment == "" {
			continue
		}
		id, err := strconv.ParseInt(segment, 10, 64)
		if err != nil {
			names = append(names, "")
			continue
		}
		names = append(names, ix[id].Name)
	}
	return names
}

// Levels returns the first and second level names of a category.
func (ix CategoryIndex) Levels(categoryID int64) (string, string) {
	category, ok := ix[categoryID]
	if !ok {
		return "", ""
	}
	names := ix.PathNames(category.Path)
	return nameAt(names, 0), nameAt(names, 1)
}

// Breadcrumb joins the resolvable names of path with sep.
func (ix CategoryIndex) Breadcrumb(path, sep string) string {
	names := ix.PathNames(path)
	parts := names[:0]
	for _, name := range names {
		if name != "" {
			parts = append(parts, name)
		}
	}
	return strings.Join(parts, sep)
}

func nameAt(names []string, i int) string {
	if i < len(names) {
		return names[i]
	}
	return ""
}

// UniqueNames returns the distinct non-empty values in first-seen order.
func UniqueNames(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// LevelLabels splits the semicolon separated label setting into label fields.
func LevelLabels(raw string) dto.LevelLabels {
	var labels dto.LevelLabels
	if strings.TrimSpace(raw) == "" {
		return labels
	}
	fields := []*string{&labels.LabelLevel1, &labels.LabelLevel2, &labels.LabelLevel3, &labels.LabelLevel4, &labels.LabelLevel5}
	for i, part := range strings.Split(raw, ";") {
		if i >= maxLevelLabels {
			break
		}
		*fields[i] = strings.TrimSpace(part)
	}
	return labels
}

// CategoryOptions builds the category picker with breadcrumb names.
func (s *Shaper) CategoryOptions(categories []models.Category) dto.CategoryList {
	index := NewCategoryIndex(categories)
	out := make([]dto.CategoryOption, 0, len(categories))
	for _, category := range categories {
		out = append(out, dto.CategoryOption{
			ID:   category.ID,
			Path: category.Path,
			Name: index.Breadcrumb(category.Path, " / "),
		})
	}
	return dto.CategoryList{Categories: out}
}
