package utils

import "errors"

var ErrorRecordNotFound = errors.New("record not found")

var ErrorReferenced = errors.New("record is still referenced")
