package models

import (
	"time"
)

// User defines the user model based on the 'users' table
type User struct {
	ID                int64     `json:"id" db:"id" example:"1"`
	Email             string    `json:"email" db:"email" example:"jane@alumni.edu"`
	Username          string    `json:"username" db:"username" example:"jane"`
	Password          string    `json:"-" db:"password_hash"`
	FirstName         string    `json:"firstName" db:"first_name" example:"Jane"`
	LastName          string    `json:"lastName" db:"last_name" example:"Doe"`
	RoleType          RoleType  `json:"roleType" db:"role_type" example:"alumni"`
	IsVerified        bool      `json:"isVerified" db:"is_verified"`
	Bio               string    `json:"bio" db:"bio"`
	Phone             string    `json:"phone" db:"phone"`
	Location          string    `json:"location" db:"location"`
	Website           string    `json:"website" db:"website"`
	LinkedInURL       string    `json:"linkedinUrl" db:"linkedin_url"`
	ProfilePictureURL *string   `json:"profilePictureUrl,omitempty" db:"profile_picture_url"`
	CreatedAt         time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt         time.Time `json:"updatedAt" db:"updated_at"`
}

// FullName returns "first last", or the username when both are empty
func (u *User) FullName() string {
	name := u.FirstName
	if u.LastName != "" {
		if name != "" {
			name += " "
		}
		name += u.LastName
	}
	if name == "" {
		return u.Username
	}
	return name
}

// University defines a university record
type University struct {
	ID              int64     `json:"id" db:"id"`
	Name            string    `json:"name" db:"name"`
	Location        string    `json:"location" db:"location"`
	Website         string    `json:"website" db:"website"`
	LogoURL         *string   `json:"logoUrl,omitempty" db:"logo_url"`
	Description     string    `json:"description" db:"description"`
	EstablishedYear *int      `json:"establishedYear,omitempty" db:"established_year"`
	CreatedAt       time.Time `json:"createdAt" db:"created_at"`
}

// UserProfile holds the academic and career details of a user (one per user)
type UserProfile struct {
	UserID             int64     `json:"userId" db:"user_id"`
	UniversityID       *int64    `json:"universityId,omitempty" db:"university_id"`
	GraduationYear     *int      `json:"graduationYear,omitempty" db:"graduation_year"`
	Degree             string    `json:"degree" db:"degree"`
	Major              string    `json:"major" db:"major"`
	CurrentPosition    string    `json:"currentPosition" db:"current_position"`
	CurrentCompany     string    `json:"currentCompany" db:"current_company"`
	Industry           string    `json:"industry" db:"industry"`
	ExperienceYears    int       `json:"experienceYears" db:"experience_years"`
	Skills             []string  `json:"skills" db:"skills"`
	Interests          []string  `json:"interests" db:"interests"`
	IsMentor           bool      `json:"isMentor" db:"is_mentor"`
	IsLookingForMentor bool      `json:"isLookingForMentor" db:"is_looking_for_mentor"`
	IsOpenToNetworking bool      `json:"isOpenToNetworking" db:"is_open_to_networking"`
	CreatedAt          time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt          time.Time `json:"updatedAt" db:"updated_at"`

	University *University `json:"university,omitempty"` // Relation, no db tag
}

// DirectoryEntry controls how a user shows up in the alumni directory
type DirectoryEntry struct {
	UserID       int64     `json:"userId" db:"user_id"`
	IsPublic     bool      `json:"isPublic" db:"is_public"`
	AllowContact bool      `json:"allowContact" db:"allow_contact"`
	Featured     bool      `json:"featured" db:"featured"`
	Achievements string    `json:"achievements" db:"achievements"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}

// Member is a user joined with its profile, as listed by the directory
type Member struct {
	User    User
	Profile UserProfile
}
