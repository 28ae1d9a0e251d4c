package testutils

import (
	"fmt"
	"time"

	challengeModel "fittrack/challenge-service/internal/model/challenge"
	profileModel "fittrack/challenge-service/internal/model/profile"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreateTestProfile creates a student profile with unique name/email
func CreateTestProfile(db *gorm.DB, opts ...ProfileOption) *profileModel.Profile {
	id := uuid.New()
	p := &profileModel.Profile{
		ID:     id,
		Name:   fmt.Sprintf("test_user_%s", id.String()[:8]),
		Email:  fmt.Sprintf("test_%s@example.com", id),
		Role:   profileModel.RoleStudent,
		Status: profileModel.StatusActive,
	}

	for _, opt := range opts {
		opt(p)
	}

	if err := db.Create(p).Error; err != nil {
		panic(fmt.Sprintf("Failed to create test profile: %v", err))
	}
	return p
}

// ProfileOption configures test profile
type ProfileOption func(*profileModel.Profile)

// WithRole sets the role
func WithRole(role profileModel.Role) ProfileOption {
	return func(p *profileModel.Profile) {
		p.Role = role
	}
}

// WithAcademy sets the academy affiliation
func WithAcademy(academyID uuid.UUID) ProfileOption {
	return func(p *profileModel.Profile) {
		p.AcademyID = &academyID
	}
}

// WithName sets the display name
func WithName(name string) ProfileOption {
	return func(p *profileModel.Profile) {
		p.Name = name
	}
}

// CreateTestChallenge creates a private challenge running from yesterday to next week
func CreateTestChallenge(db *gorm.DB, creatorID uuid.UUID, opts ...ChallengeOption) *challengeModel.Challenge {
	today := challengeModel.DateOf(time.Now())
	suffix := uuid.New().String()
	c := &challengeModel.Challenge{
		Name:          fmt.Sprintf("test_challenge_%s", suffix[:8]),
		Description:   "Test challenge description",
		StartDate:     today.AddDate(0, 0, -1),
		EndDate:       today.AddDate(0, 0, 7),
		InviteCode:    randomCode(),
		RewardPoints:  100,
		ChallengeType: challengeModel.TypeParticipation,
		CreatedBy:     creatorID,
	}

	for _, opt := range opts {
		opt(c)
	}

	if err := db.Create(c).Error; err != nil {
		panic(fmt.Sprintf("Failed to create test challenge: %v", err))
	}
	return c
}

// ChallengeOption configures test challenge
type ChallengeOption func(*challengeModel.Challenge)

// WithPublicAcademy makes the challenge public and owned by the academy
func WithPublicAcademy(academyID uuid.UUID) ChallengeOption {
	return func(c *challengeModel.Challenge) {
		c.IsPublic = true
		c.AcademyID = &academyID
	}
}

// WithChallengeName sets the challenge name
func WithChallengeName(name string) ChallengeOption {
	return func(c *challengeModel.Challenge) {
		c.Name = name
	}
}

// WithEndDate sets the end date; start date moves back if needed
func WithEndDate(end time.Time) ChallengeOption {
	return func(c *challengeModel.Challenge) {
		c.EndDate = challengeModel.DateOf(end)
		if !c.EndDate.After(c.StartDate) {
			c.StartDate = c.EndDate.AddDate(0, 0, -7)
		}
	}
}

// WithInviteCode sets the invite code
func WithInviteCode(code string) ChallengeOption {
	return func(c *challengeModel.Challenge) {
		c.InviteCode = code
	}
}

// CreateTestParticipant joins a profile to a challenge
func CreateTestParticipant(db *gorm.DB, challengeID, userID uuid.UUID) *challengeModel.Participant {
	p := &challengeModel.Participant{
		ChallengeID: challengeID,
		UserID:      userID,
		JoinedAt:    time.Now(),
	}
	if err := db.Omit("Challenge").Create(p).Error; err != nil {
		panic(fmt.Sprintf("Failed to create test participant: %v", err))
	}
	return p
}

// randomCode returns 8 uppercase hex characters
func randomCode() string {
	return fmt.Sprintf("%08X", uuid.New().ID())
}
