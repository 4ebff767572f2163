package models

import (
	"errors"
)

var (
	ErrGeneral          = errors.New("an error occurred on the server during your request")
	ErrResourceNotFound = errors.New("there is no")

	ErrEmailTaken                = errors.New("this email is already registered")
	ErrAmountNotStrictlyPositive = errors.New("the amount must be greater than 0")
	ErrMonthOutOfRange           = errors.New("the month must be between 1 and 12")
	ErrYearOutOfRange            = errors.New("the year must be between 2000 and 2100")
	ErrCategoryInUse             = errors.New("this category is used by expenses and cannot be deleted")
)
