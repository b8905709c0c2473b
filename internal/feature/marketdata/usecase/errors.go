package usecase

import "errors"

// ErrCredentialMissing はユーザーにAPIキーが設定されていない場合に返されます。
// 呼び出し側はこのエラーを「キー未設定」として区別できます。
var ErrCredentialMissing = errors.New("market data API key is missing")
