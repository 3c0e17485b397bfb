package components

const (
	TaskCardHeight        = 5  // TaskCardHeight is the fixed height of the task card
	taskTitleMaxLength    = 32 // display cells for a task title before truncation
	columnBorderOverhead  = 3  // top border + bottom padding + bottom border
	headerLines           = 1  // column name and count
	topIndicatorLines     = 1  // empty line or "▲ more above"
	bottomIndicatorLines  = 2  // newline + "▼ more below"
	columnContentOverhead = columnBorderOverhead + headerLines + topIndicatorLines + 1
)

// VisibleTasks is how many cards fit in a column of the given total height
func VisibleTasks(height int) int {
	return max((height-columnContentOverhead)/TaskCardHeight, 1)
}
