package spapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestGetAllOrders_FollowsNextToken(t *testing.T) {
	// 三页数据，第三页不带 NextToken
	var requests []string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests = append(requests, r.URL.RawQuery)

		token := r.URL.Query().Get("NextToken")
		var page OrdersPage
		switch token {
		case "":
			page = OrdersPage{
				Orders:    []Order{{AmazonOrderID: "111-001"}, {AmazonOrderID: "111-002"}},
				NextToken: "page2",
			}
		case "page2":
			page = OrdersPage{
				Orders:    []Order{{AmazonOrderID: "111-003"}},
				NextToken: "page3",
			}
		case "page3":
			page = OrdersPage{
				Orders: []Order{{AmazonOrderID: "111-004"}},
			}
		default:
			t.Errorf("收到未知 NextToken: %s", token)
		}

		json.NewEncoder(w).Encode(map[string]interface{}{"payload": page})
	}))
	defer server.Close()

	cfg := DefaultConfig()
	cfg.Endpoint = server.URL
	client := NewClient(cfg)

	orders, err := client.GetAllOrders(context.Background(), "t", &OrdersQuery{
		MarketplaceIDs: []string{"ATVPDKIKX0DER"},
		CreatedAfter:   time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("GetAllOrders() 失败: %v", err)
	}

	if len(orders) != 4 {
		t.Errorf("订单总数 = %d, want 4", len(orders))
	}
	if len(requests) != 3 {
		t.Errorf("请求次数 = %d, want 3", len(requests))
	}
	if orders[3].AmazonOrderID != "111-004" {
		t.Errorf("末条订单 = %s", orders[3].AmazonOrderID)
	}
}

func TestGetAllOrders_StopsAtCap(t *testing.T) {
	// 服务端永远返回 NextToken，验证上限兜底生效
	pageSize := 10

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		orders := make([]Order, pageSize)
		for i := range orders {
			orders[i] = Order{AmazonOrderID: fmt.Sprintf("111-%d", i)}
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"payload": OrdersPage{Orders: orders, NextToken: "more"},
		})
	}))
	defer server.Close()

	cfg := DefaultConfig()
	cfg.Endpoint = server.URL
	cfg.MaxOrders = 25 // 不是页大小的整数倍，验证裁剪
	client := NewClient(cfg)

	orders, err := client.GetAllOrders(context.Background(), "t", &OrdersQuery{
		MarketplaceIDs: []string{"ATVPDKIKX0DER"},
	})
	if err != nil {
		t.Fatalf("GetAllOrders() 失败: %v", err)
	}

	if len(orders) != 25 {
		t.Errorf("订单总数 = %d, want 25（上限裁剪）", len(orders))
	}
}

func TestGetOrders_NextTokenOnlyCarriesCursor(t *testing.T) {
	// 亚马逊要求翻页请求只带 NextToken + MarketplaceIds
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("CreatedAfter") != "" {
			t.Error("翻页请求不应携带 CreatedAfter")
		}
		if q.Get("NextToken") != "cursor-1" {
			t.Errorf("NextToken = %q", q.Get("NextToken"))
		}
		json.NewEncoder(w).Encode(map[string]interface{}{"payload": OrdersPage{}})
	}))
	defer server.Close()

	cfg := DefaultConfig()
	cfg.Endpoint = server.URL
	client := NewClient(cfg)

	_, err := client.GetOrders(context.Background(), "t", &OrdersQuery{
		MarketplaceIDs: []string{"ATVPDKIKX0DER"},
		CreatedAfter:   time.Now(),
		NextToken:      "cursor-1",
	})
	if err != nil {
		t.Fatalf("GetOrders() 失败: %v", err)
	}
}
