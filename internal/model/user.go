package model

// Identity 本地缓存的用户身份记录
type Identity struct {
	Email    string `json:"email"`
	Name     string `json:"name,omitempty"`
	LastName string `json:"last_name,omitempty"`
}

// TokenPair 登录/确认/刷新接口返回的令牌对
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Profile 服务端的用户资料
type Profile struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	LastName string `json:"last_name"`
}
