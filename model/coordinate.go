package model

import "time"

// Coordinate 代表一个经纬度点 (WGS84)，不可变值
type Coordinate struct {
	Latitude  float64 `json:"latitude"`  // 纬度
	Longitude float64 `json:"longitude"` // 经度
}

// Accuracy 定位精度档位，对应设备定位服务的精度选项
type Accuracy int

const (
	AccuracyLowest Accuracy = iota + 1
	AccuracyLow
	AccuracyBalanced
	AccuracyHigh
	AccuracyHighest
	AccuracyBestForNavigation
)

// Sample 设备定位服务推送的一个定位样本
type Sample struct {
	Coordinate
	Accuracy float64   `json:"accuracy,omitempty"` // 水平误差 (米)，未知时为 0
	At       time.Time `json:"at"`
}
