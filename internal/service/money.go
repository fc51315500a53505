package service

import "math"

// toCents 金额（元）转分
// float64 乘 100 经常落在整数正下方（19.99*100 = 1998.99…），
// 直接截断会少一分，必须四舍五入
func toCents(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
