package model

// Country 是登录页国家区号选择器中的一项。
type Country struct {
	Name     string `json:"name"`
	Code     string `json:"code"`
	DialCode string `json:"dialCode"`
	Flag     string `json:"flag"`
}
