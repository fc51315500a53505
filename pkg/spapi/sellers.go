package spapi

import "context"

// MarketplaceParticipation 卖家在某个站点的参与信息（Sellers API v1）
type MarketplaceParticipation struct {
	Marketplace struct {
		ID           string `json:"id"`
		Name         string `json:"name"`
		CountryCode  string `json:"countryCode"`
		DefaultCurrencyCode string `json:"defaultCurrencyCode"`
		DomainName   string `json:"domainName"`
	} `json:"marketplace"`
	Participation struct {
		IsParticipating      bool `json:"isParticipating"`
		HasSuspendedListings bool `json:"hasSuspendedListings"`
	} `json:"participation"`
}

type participationsEnvelope struct {
	Payload []MarketplaceParticipation `json:"payload"`
}

// GetMarketplaceParticipations 获取卖家参与的所有站点
// 授权成功后用它拿店铺名/站点 ID，也作为 dashboard 的 seller-info 分支
func (c *Client) GetMarketplaceParticipations(ctx context.Context, accessToken string) ([]MarketplaceParticipation, error) {
	var env participationsEnvelope
	if err := c.callInto(ctx, accessToken, "/sellers/v1/marketplaceParticipations", nil, &env); err != nil {
		return nil, err
	}
	return env.Payload, nil
}
