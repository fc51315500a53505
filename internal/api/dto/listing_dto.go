package dto

// CreateListingRequest listing 向导创建请求
type CreateListingRequest struct {
	SKU         string                 `json:"sku" binding:"required"`
	ProductType string                 `json:"product_type" binding:"required"`
	Title       string                 `json:"title"`
	Price       float64                `json:"price"`
	Currency    string                 `json:"currency"`
	Attributes  map[string]interface{} `json:"attributes"`
}

// PatchListingRequest listing 局部更新请求
type PatchListingRequest struct {
	ProductType string    `json:"product_type" binding:"required"`
	Patches     []PatchOp `json:"patches" binding:"required"`
}

// PatchOp 局部更新操作
type PatchOp struct {
	Op    string        `json:"op" binding:"required"`
	Path  string        `json:"path" binding:"required"`
	Value []interface{} `json:"value"`
}

// ListingSubmissionResult 提交结果
// Accepted=false 表示 issues 中含 ERROR 级条目，提交被拒
type ListingSubmissionResult struct {
	SKU          string      `json:"sku"`
	Status       string      `json:"status"`
	SubmissionID string      `json:"submission_id"`
	Accepted     bool        `json:"accepted"`
	Issues       interface{} `json:"issues,omitempty"`
}
