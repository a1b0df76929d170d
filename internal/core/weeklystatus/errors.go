package weeklystatus

import "errors"

var (
	// ErrInvalidWindow は継続率の集計期間が不正な場合に返却されます。
	ErrInvalidWindow = errors.New("weeklystatus: invalid window days")
	// ErrCacheMiss はキャッシュに集計結果が無い場合に ReportCache が返却します。
	ErrCacheMiss = errors.New("weeklystatus: cache miss")
	// ErrSnapshotAlreadyExists は同じ ID のスナップショットが既に保存されている場合に返却されます。
	ErrSnapshotAlreadyExists = errors.New("weeklystatus: snapshot already exists")
)
