package model

import (
	"sync/atomic"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NewID 生成 24 位十六进制 ObjectID，所有后端共用同一种 id 格式
func NewID() string { return primitive.NewObjectID().Hex() }

// ValidID 判断 id 在语法上是否合法
func ValidID(id string) bool { return primitive.IsValidObjectID(id) }

var lastStamp atomic.Int64

// Now 存储使用的时间：UTC、毫秒精度（与文档库 BSON date 一致），进程内严格递增
func Now() time.Time {
	for {
		last := lastStamp.Load()
		ms := time.Now().UnixMilli()
		if ms <= last {
			ms = last + 1
		}
		if lastStamp.CompareAndSwap(last, ms) {
			return time.UnixMilli(ms).UTC()
		}
	}
}
