package models

// Option is a key/display-text pair offered by a select control.
type Option struct {
	Key  string `json:"key"`
	Text string `json:"text"`
}

// FilterAll is the filter key that disables a filter.
const FilterAll = "all"

// DefaultSorting is the ordering applied when none is requested.
const DefaultSorting = "createdAt, Desc"

var SortingOptions = []Option{
	{Key: "createdAt, Desc", Text: "Created At, Desc"},
	{Key: "createdAt, Asc", Text: "Created At, Asc"},
	{Key: "priority, Desc", Text: "Priority, Desc"},
	{Key: "priority, Asc", Text: "Priority, Asc"},
	{Key: "deadline, Desc", Text: "Deadline, Desc"},
	{Key: "deadline, Asc", Text: "Deadline, Asc"},
	{Key: "status, Desc", Text: "Status, Desc"},
	{Key: "status, Asc", Text: "Status, Asc"},
	{Key: "title, Desc", Text: "Title, Desc"},
	{Key: "title, Asc", Text: "Title, Asc"},
}

var PriorityOptions = []Option{
	{Key: FilterAll, Text: "All"},
	{Key: string(PriorityLow), Text: "Low"},
	{Key: string(PriorityMedium), Text: "Medium"},
	{Key: string(PriorityHigh), Text: "High"},
}

var StatusOptions = []Option{
	{Key: FilterAll, Text: "All"},
	{Key: StatusInProgress, Text: "Ongoing"},
	{Key: StatusDone, Text: "Done"},
}
