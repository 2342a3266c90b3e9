package salary

import "errors"

var (
	ErrTemplateNotFound       = errors.New("salary template not found")
	ErrTemplateNameExists     = errors.New("salary template name already exists")
	ErrStructureNotFound      = errors.New("salary structure not found")
	ErrNoActiveStructure      = errors.New("no salary structure is effective for the employee on the requested date")
	ErrDuplicateEffectiveDate = errors.New("employee already has a salary structure effective from this date")
)
