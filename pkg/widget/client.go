// Package widget 实现店面倒计时挂件的客户端引擎：
// 拉取公开计时器配置、维护访客本地的常青起点、按秒滴答渲染剩余时间。
// 服务端任何失败都只会让挂件隐藏自己，绝不向访客暴露错误。
package widget

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"
)

// ==================== 公开视图 (客户端侧) ====================

// TimerData 公开接口返回的计时器最小视图
type TimerData struct {
	ID         string     `json:"id"`
	Type       string     `json:"type"` // fixed | evergreen
	EndDate    *time.Time `json:"endDate"`
	Duration   int        `json:"duration"` // 秒
	Appearance Appearance `json:"appearance"`
}

// Appearance 挂件外观 (服务端已归一化，这里仍兜底默认值)
type Appearance struct {
	BackgroundColor string `json:"backgroundColor"`
	TextColor       string `json:"textColor"`
	Position        string `json:"position"`
	Text            string `json:"text"`
}

// timerEnvelope 公开读接口响应包装
type timerEnvelope struct {
	Timer *TimerData `json:"timer"`
}

// ==================== API 客户端 ====================

// Client 公开接口客户端
type Client struct {
	http *resty.Client
}

// NewClient 创建客户端
// baseURL: 服务端地址，如 https://timer.example.com
func NewClient(baseURL string) *Client {
	c := resty.New()
	c.SetBaseURL(baseURL)
	// 设置超时，防止网络波动挂死挂件；失败会退化为隐藏，不做重试
	c.SetTimeout(10 * time.Second)

	return &Client{http: c}
}

// FetchTimer 拉取指定 (shop, productId) 当前生效的计时器
// 返回 nil 表示服务端明确告知无可展示计时器
func (c *Client) FetchTimer(ctx context.Context, shop, productID string) (*TimerData, error) {
	var envelope timerEnvelope
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("shop", shop).
		SetResult(&envelope).
		Get("/api/timers/public/" + url.PathEscape(productID))
	if err != nil {
		return nil, err
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("fetch timer: HTTP %d", resp.StatusCode())
	}
	return envelope.Timer, nil
}

// TrackImpression 曝光上报 (调用方忽略失败)
func (c *Client) TrackImpression(ctx context.Context, timerID string) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("timerId", timerID).
		Get("/api/timers/public/impression")
	if err != nil {
		return err
	}
	if !resp.IsSuccess() {
		return fmt.Errorf("track impression: HTTP %d", resp.StatusCode())
	}
	return nil
}
