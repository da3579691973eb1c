package cli

import "errors"

var (
	errDoctorIssuesFound = errors.New("doctor found errors")
	errMoveFlags         = errors.New("provide exactly one of --target, --before or --after")
)
