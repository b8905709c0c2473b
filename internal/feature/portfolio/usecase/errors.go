package usecase

import "errors"

// ErrPortfolioNotFound はポートフォリオが存在しない、または
// 呼び出しユーザーの所有でない場合に返されます。
var ErrPortfolioNotFound = errors.New("portfolio not found")

// ErrPositionNotFound はポジションが存在しない、または
// 呼び出しユーザーの所有でない場合に返されます。
var ErrPositionNotFound = errors.New("position not found")
