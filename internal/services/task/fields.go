package task

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/teamsync/teamsync/internal/models"
)

// fieldChange is a validated edit of one task field
type fieldChange struct {
	field    string
	oldValue string
	newValue string
	action   string         // history action, ActionUpdated when empty
	fields   map[string]any // columns to write
	column   string         // destination column when the task moves
	apply    func(t *models.Task)
}

const dateOnly = "2006-01-02"

// resolve validates value for field against t. A nil change means the value
// is already stored.
func (s *service) resolve(ctx context.Context, t *models.Task, field, value string) (*fieldChange, error) {
	switch strings.ToLower(strings.ReplaceAll(field, "_", "")) {
	case "status":
		return s.resolveStatus(ctx, t, value)

	case "priority":
		p, ok := models.ParsePriority(value)
		if !ok {
			return nil, ErrInvalidPriority
		}
		if p == t.Priority {
			return nil, nil
		}
		return &fieldChange{
			field:    "priority",
			oldValue: string(t.Priority),
			newValue: string(p),
			fields:   map[string]any{"priority": p},
			apply:    func(t *models.Task) { t.Priority = p },
		}, nil

	case "assignee", "assigneeid":
		return s.resolveAssignee(ctx, t, strings.TrimSpace(value))

	case "duedate":
		return resolveDueDate(t, strings.TrimSpace(value))

	case "description":
		if value == t.Description {
			return nil, nil
		}
		return &fieldChange{
			field:    "description",
			oldValue: t.Description,
			newValue: value,
			fields:   map[string]any{"description": value},
			apply:    func(t *models.Task) { t.Description = value },
		}, nil

	case "title":
		title := strings.TrimSpace(value)
		if title == "" {
			return nil, ErrEmptyTitle
		}
		if utf8.RuneCountInString(title) > models.MaxTitleLength {
			return nil, ErrTitleTooLong
		}
		if title == t.Title {
			return nil, nil
		}
		return &fieldChange{
			field:    "title",
			oldValue: t.Title,
			newValue: title,
			fields:   map[string]any{"title": title},
			apply:    func(t *models.Task) { t.Title = title },
		}, nil

	case "type":
		typ := strings.TrimSpace(value)
		if typ == "" {
			return nil, ErrEmptyType
		}
		if utf8.RuneCountInString(typ) > models.MaxNameLength {
			return nil, ErrTypeTooLong
		}
		if typ == t.Type {
			return nil, nil
		}
		return &fieldChange{
			field:    "type",
			oldValue: t.Type,
			newValue: typ,
			fields:   map[string]any{"type": typ},
			apply:    func(t *models.Task) { t.Type = typ },
		}, nil

	case "tags", "labels":
		tags, err := normalizeTags(strings.Split(value, ","))
		if err != nil {
			return nil, err
		}
		oldValue, newValue := strings.Join(t.Tags, ","), strings.Join(tags, ",")
		if oldValue == newValue {
			return nil, nil
		}
		return &fieldChange{
			field:    "tags",
			oldValue: oldValue,
			newValue: newValue,
			fields:   map[string]any{"tags": tags},
			apply:    func(t *models.Task) { t.Tags = append([]string{}, tags...) },
		}, nil
	}

	return nil, ErrUnknownField
}

// resolveStatus accepts a column id or a case-insensitive column name
func (s *service) resolveStatus(ctx context.Context, t *models.Task, value string) (*fieldChange, error) {
	cols, err := s.repo.ListColumns(ctx, t.BoardID)
	if err != nil {
		return nil, err
	}

	value = strings.TrimSpace(value)
	var target *models.Column
	for _, c := range cols {
		if c.ID == value {
			target = c
			break
		}
	}
	if target == nil {
		for _, c := range cols {
			if strings.EqualFold(c.Name, value) {
				target = c
				break
			}
		}
	}
	if target == nil {
		return nil, ErrInvalidStatus
	}
	if target.ID == t.ColumnID {
		return nil, nil
	}

	return &fieldChange{
		field:    "status",
		oldValue: columnName(cols, t.ColumnID, t.Status),
		newValue: target.Name,
		fields:   map[string]any{},
		column:   target.ID,
		apply: func(t *models.Task) {
			t.ColumnID = target.ID
			t.Status = target.Name
		},
	}, nil
}

// resolveAssignee accepts a user id, empty clears the assignee
func (s *service) resolveAssignee(ctx context.Context, t *models.Task, userID string) (*fieldChange, error) {
	oldValue := ""
	if t.AssigneeID != nil {
		oldValue = *t.AssigneeID
	}
	if userID == oldValue {
		return nil, nil
	}

	if userID == "" {
		return &fieldChange{
			field:    "assignee",
			oldValue: oldValue,
			fields:   map[string]any{"assignee_id": nil},
			apply:    func(t *models.Task) { t.AssigneeID = nil },
		}, nil
	}

	if err := s.requireAssignee(ctx, userID); err != nil {
		return nil, err
	}
	return &fieldChange{
		field:    "assignee",
		oldValue: oldValue,
		newValue: userID,
		fields:   map[string]any{"assignee_id": userID},
		apply: func(t *models.Task) {
			id := userID
			t.AssigneeID = &id
		},
	}, nil
}

// resolveDueDate accepts RFC3339 or YYYY-MM-DD, empty clears the date
func resolveDueDate(t *models.Task, value string) (*fieldChange, error) {
	oldValue := formatDate(t.DueDate)

	if value == "" {
		if t.DueDate == nil {
			return nil, nil
		}
		return &fieldChange{
			field:    "dueDate",
			oldValue: oldValue,
			fields:   map[string]any{"due_date": nil},
			apply:    func(t *models.Task) { t.DueDate = nil },
		}, nil
	}

	due, err := parseDate(value)
	if err != nil {
		return nil, err
	}
	newValue := formatDate(&due)
	if newValue == oldValue {
		return nil, nil
	}
	return &fieldChange{
		field:    "dueDate",
		oldValue: oldValue,
		newValue: newValue,
		fields:   map[string]any{"due_date": due},
		apply: func(t *models.Task) {
			d := due
			t.DueDate = &d
		},
	}, nil
}

func parseDate(value string) (time.Time, error) {
	if d, err := time.Parse(time.RFC3339, value); err == nil {
		return d.UTC(), nil
	}
	if d, err := time.Parse(dateOnly, value); err == nil {
		return d, nil
	}
	return time.Time{}, ErrInvalidDueDate
}

func formatDate(d *time.Time) string {
	if d == nil {
		return ""
	}
	return d.UTC().Format(time.RFC3339)
}
