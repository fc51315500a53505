package spapi

// 通用数据结构，各资源文件共享

// Money 金额，亚马逊用字符串表示数值
type Money struct {
	CurrencyCode string `json:"CurrencyCode"`
	Amount       string `json:"Amount"`
}

// Address 收货地址（脱敏后亚马逊只返回城市级信息）
type Address struct {
	Name          string `json:"Name,omitempty"`
	AddressLine1  string `json:"AddressLine1,omitempty"`
	City          string `json:"City,omitempty"`
	StateOrRegion string `json:"StateOrRegion,omitempty"`
	PostalCode    string `json:"PostalCode,omitempty"`
	CountryCode   string `json:"CountryCode,omitempty"`
}

// Issue 提交类接口返回的问题条目
// severity 为 "ERROR" 时表示提交被拒，"WARNING"/"INFO" 表示接受但有标记
type Issue struct {
	Code           string   `json:"code"`
	Message        string   `json:"message"`
	Severity       string   `json:"severity"`
	AttributeNames []string `json:"attributeNames,omitempty"`
}

// HasErrorIssue 判断 issues 中是否存在 ERROR 级条目
func HasErrorIssue(issues []Issue) bool {
	for _, is := range issues {
		if is.Severity == "ERROR" {
			return true
		}
	}
	return false
}
