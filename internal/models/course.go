package models

import (
	"time"

	"gorm.io/gorm"
)

type CourseStatus string

const (
	CourseDraft     CourseStatus = "draft"
	CoursePublished CourseStatus = "published"
	CourseArchived  CourseStatus = "archived"
)

type Course struct {
	ID          uint         `json:"id" gorm:"primaryKey"`
	Title       string       `json:"title" gorm:"not null;size:200;index" validate:"required,min=1,max=200"`
	Description *string      `json:"description" gorm:"type:text" validate:"omitempty,max=1000"`
	Status      CourseStatus `json:"status" gorm:"default:draft;index" validate:"omitempty,oneof=draft published archived"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Modules []CourseModule `json:"modules" gorm:"foreignKey:CourseID"`
}

// CourseModule is a unit of course content. Modules flagged mandatory form
// the denominator for course progress; when none are flagged, every module
// counts as mandatory.
type CourseModule struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	CourseID    uint   `json:"course_id" gorm:"not null;index"`
	Title       string `json:"title" gorm:"not null;size:200" validate:"required,min=1,max=200"`
	IsMandatory bool   `json:"is_mandatory" gorm:"default:false;index"`
	SortOrder   int    `json:"sort_order" gorm:"default:0"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Quizzes     []Quiz       `json:"quizzes" gorm:"foreignKey:ModuleID"`
	Assignments []Assignment `json:"assignments" gorm:"foreignKey:ModuleID"`
	Tests       []Test       `json:"tests" gorm:"foreignKey:ModuleID"`
}

func (Course) TableName() string {
	return "courses"
}

func (CourseModule) TableName() string {
	return "course_modules"
}
