package dto

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// PaginationRequest 通用分页参数
type PaginationRequest struct {
	Page     int `form:"page"      binding:"omitempty,min=1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// GetPage 页码，缺省为 1
func (p *PaginationRequest) GetPage() int {
	if p.Page <= 0 {
		return 1
	}
	return p.Page
}

// GetPageSize 每页数量，缺省 20，上限 100
func (p *PaginationRequest) GetPageSize() int {
	switch {
	case p.PageSize <= 0:
		return defaultPageSize
	case p.PageSize > maxPageSize:
		return maxPageSize
	}
	return p.PageSize
}

// Bounds 当前页在长度为 n 的有序列表中的半开区间 [start, end)
// 页码越界时返回空区间
func (p *PaginationRequest) Bounds(n int) (start, end int) {
	start = min((p.GetPage()-1)*p.GetPageSize(), n)
	end = min(start+p.GetPageSize(), n)
	return start, end
}
