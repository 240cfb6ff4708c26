package models

type BrandColors struct {
	Primary   string `json:"primary"`
	Secondary string `json:"secondary"`
	Accent    string `json:"accent,omitempty"`
}

type CompanyAddress struct {
	Street      string `json:"street,omitempty"`
	City        string `json:"city,omitempty"`
	PostalCode  string `json:"postalCode,omitempty"`
	Country     string `json:"country,omitempty"`
	FullAddress string `json:"fullAddress"`
}

type CompanyContact struct {
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Website string `json:"website"`
}

type SocialLinks struct {
	LinkedIn  string `json:"linkedin,omitempty"`
	Facebook  string `json:"facebook,omitempty"`
	Instagram string `json:"instagram,omitempty"`
	Twitter   string `json:"twitter,omitempty"`
	Xing      string `json:"xing,omitempty"`
}

// CompanyProfile is the branding bundle generated for a lead. It is replaced
// wholesale on regeneration or edit.
type CompanyProfile struct {
	CompanyName  string          `json:"companyName" validate:"required,min=2"`
	Logo         string          `json:"logo,omitempty"`
	LogoFallback string          `json:"logoFallback,omitempty"`
	BrandColors  BrandColors     `json:"brandColors"`
	AboutText    string          `json:"aboutText" validate:"required,min=50,max=2000"`
	Mission      string          `json:"mission,omitempty"`
	Values       []string        `json:"values" validate:"min=1,dive,required"`
	Benefits     []string        `json:"benefits" validate:"min=1,dive,required"`
	Address      *CompanyAddress `json:"address,omitempty"`
	Contact      CompanyContact  `json:"contact"`
	SocialLinks  *SocialLinks    `json:"socialLinks,omitempty"`
	Images       []string        `json:"images"`
	Industry     string          `json:"industry,omitempty"`
}
