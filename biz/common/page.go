package common

const (
	DefaultPage     = 1
	DefaultPageSize = 100
)

type PageRequest struct {
	Page     int64  `form:"page,default=1" binding:"required,numeric,min=1"`
	PageSize int64  `form:"page_size,default=100" binding:"required,numeric,min=1,max=5000"`
	OrderKey string `form:"order_key"`
	Order    string `form:"order"`
}
