package clinic

import "errors"

var (
	errClinicNotFound = errors.New("clinic not found")
	errClinicInactive = errors.New("clinic is inactive")
)
