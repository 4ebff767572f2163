package v1

type URIID struct {
	ID uint `uri:"id" binding:"required"` // ID of the resource
}

// Pagination is shared by all list endpoints. Skip and limit are applied
// after filtering and ordering.
type Pagination struct {
	Skip  int `form:"skip,default=0" binding:"gte=0"`            // Number of rows to skip. Defaults to 0.
	Limit int `form:"limit,default=100" binding:"gte=1,lte=100"` // Maximum number of rows to return. 1 to 100, defaults to 100.
}
