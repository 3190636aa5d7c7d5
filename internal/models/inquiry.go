package models

type Inquiry struct {
	BaseModel
	UserID  string        `gorm:"not null;index"`
	Title   string        `gorm:"not null"`
	Content string        `gorm:"type:text"`
	Status  InquiryStatus `gorm:"type:varchar(20);default:'open'"`
	Answer  string        `gorm:"type:text"`
}

type Report struct {
	BaseModel
	UserID  string        `gorm:"not null;index"`
	Title   string        `gorm:"not null"`
	Content string        `gorm:"type:text"`
	Status  InquiryStatus `gorm:"type:varchar(20);default:'open'"`
	Answer  string        `gorm:"type:text"`
}
