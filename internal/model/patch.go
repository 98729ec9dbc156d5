package model

import "time"

// TaskPatch carries a partial update. Nil fields are left untouched.
type TaskPatch struct {
	TaskName        *string
	TaskDescription *string
	DueDate         *time.Time
	Priority        *Priority
	Status          *Status
	Category        *string
	EstimatedTime   *float64
	ActualTime      *float64
	Notes           *string
	CompletedAt     *time.Time
	AssignedTo      *string
	Tags            *string
}

// Fields returns the column/document keys to set for this patch, including
// updated_at. Keys match both the SQL column names and the BSON field names.
func (p TaskPatch) Fields(now time.Time) map[string]any {
	fields := map[string]any{"updated_at": now}
	setString := func(key string, v *string) {
		if v != nil {
			fields[key] = *v
		}
	}
	setTime := func(key string, v *time.Time) {
		if v != nil {
			fields[key] = *v
		}
	}
	setFloat := func(key string, v *float64) {
		if v != nil {
			fields[key] = *v
		}
	}

	setString("task_name", p.TaskName)
	setString("task_description", p.TaskDescription)
	setTime("due_date", p.DueDate)
	if p.Priority != nil {
		fields["priority"] = string(*p.Priority)
	}
	if p.Status != nil {
		fields["status"] = string(*p.Status)
	}
	setString("category", p.Category)
	setFloat("estimated_time", p.EstimatedTime)
	setFloat("actual_time", p.ActualTime)
	setString("notes", p.Notes)
	setTime("completed_at", p.CompletedAt)
	setString("assigned_to", p.AssignedTo)
	setString("tags", p.Tags)
	return fields
}
