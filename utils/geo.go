package utils

import (
	"math"

	"campus-attendance/model"
)

// EarthRadius 地球平均半径 (米)
const EarthRadius = 6371000.0

// DegreesToRadians 角度转弧度
func DegreesToRadians(d float64) float64 {
	return d * math.Pi / 180.0
}

// HaversineDistance Haversine 公式 (两点间球面距离，单位米)
// 满足 d(a,b) = d(b,a)，d(a,a) = 0
func HaversineDistance(p1, p2 model.Coordinate) float64 {
	lat1 := DegreesToRadians(p1.Latitude)
	lon1 := DegreesToRadians(p1.Longitude)
	lat2 := DegreesToRadians(p2.Latitude)
	lon2 := DegreesToRadians(p2.Longitude)

	dLat := lat2 - lat1
	dLon := lon2 - lon1
	// a = sin²(Δlat/2) + cos(lat1) * cos(lat2) * sin²(Δlon/2)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	// c = 2 * atan2(√a, √(1-a))
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadius * c
}

// OffsetNorth 返回从 p 向正北移动 meters 米后的坐标 (沿经线)
func OffsetNorth(p model.Coordinate, meters float64) model.Coordinate {
	return model.Coordinate{
		Latitude:  p.Latitude + meters/EarthRadius*180.0/math.Pi,
		Longitude: p.Longitude,
	}
}
