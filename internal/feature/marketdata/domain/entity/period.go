package entity

import "time"

// Period はヒストリカルデータ取得の期間指定です。
type Period string

const (
	Period1D Period = "1D"
	Period1W Period = "1W"
	Period1M Period = "1M"
	Period3M Period = "3M"
	Period6M Period = "6M"
	Period1Y Period = "1Y"
)

// Normalize は未知の期間を 1M に丸めます。キャッシュキーと取得範囲が
// 常に同じ期間を指すように、利用前に必ず通します。
func (p Period) Normalize() Period {
	switch p {
	case Period1D, Period1W, Period1M, Period3M, Period6M, Period1Y:
		return p
	default:
		return Period1M
	}
}

// Window は today を終端とする取得対象の日付範囲 [from, to] を返します。
// 未知の期間は 1M として扱います。
func (p Period) Window(today time.Time) (from, to time.Time) {
	to = today
	switch p.Normalize() {
	case Period1D:
		from = today.AddDate(0, 0, -1)
	case Period1W:
		from = today.AddDate(0, 0, -7)
	case Period3M:
		from = today.AddDate(0, -3, 0)
	case Period6M:
		from = today.AddDate(0, -6, 0)
	case Period1Y:
		from = today.AddDate(-1, 0, 0)
	default:
		from = today.AddDate(0, -1, 0)
	}
	return from, to
}
