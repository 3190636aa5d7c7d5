package models

type UserRole string
type UserStatus string
type ApplicationStatus string
type InquiryStatus string

const (
	UserRoleMember  UserRole = "MEMBER"
	UserRoleCompany UserRole = "COMPANY"
	UserRoleAdmin   UserRole = "ADMIN"

	UserStatusActive    UserStatus = "active"
	UserStatusSuspended UserStatus = "suspended"

	ApplicationStatusSubmitted ApplicationStatus = "submitted"
	ApplicationStatusReviewing ApplicationStatus = "reviewing"
	ApplicationStatusAccepted  ApplicationStatus = "accepted"
	ApplicationStatusRejected  ApplicationStatus = "rejected"

	InquiryStatusOpen     InquiryStatus = "open"
	InquiryStatusAnswered InquiryStatus = "answered"
)
