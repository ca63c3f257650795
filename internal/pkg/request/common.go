package request

// ByIDRequest is a common struct for endpoints that require an ID path parameter.
type ByIDRequest struct {
	ID string `uri:"id" binding:"required,uuid"`
}

// PhoneQuery is the query string of the customer-facing lookups keyed by phone.
type PhoneQuery struct {
	Phone string `form:"phone"`
}
