package challenge

import (
	"context"
	"testing"
	"time"

	challengeModel "fittrack/challenge-service/internal/model/challenge"
	profileModel "fittrack/challenge-service/internal/model/profile"
	"fittrack/challenge-service/internal/testutils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestChallengeRepository_Integration(t *testing.T) {
	db := testutils.SetupTestDB(t)
	repo := NewChallengeRepository(db)
	ctx := context.Background()

	academy := testutils.CreateTestProfile(db, testutils.WithRole(profileModel.RoleAcademy))
	other := testutils.CreateTestProfile(db, testutils.WithRole(profileModel.RoleAcademy))
	student := testutils.CreateTestProfile(db, testutils.WithAcademy(academy.ID))

	public := testutils.CreateTestChallenge(db, academy.ID,
		testutils.WithPublicAcademy(academy.ID), testutils.WithChallengeName("Corrida 5k"))
	foreign := testutils.CreateTestChallenge(db, other.ID, testutils.WithPublicAcademy(other.ID))
	private := testutils.CreateTestChallenge(db, other.ID)
	ended := testutils.CreateTestChallenge(db, academy.ID,
		testutils.WithPublicAcademy(academy.ID), testutils.WithEndDate(time.Now().AddDate(0, 0, -2)))

	t.Run("duplicate invite code", func(t *testing.T) {
		dup := &challengeModel.Challenge{
			Name: "dup", Description: "d",
			StartDate: public.StartDate, EndDate: public.EndDate,
			InviteCode: public.InviteCode, CreatedBy: academy.ID,
			ChallengeType: challengeModel.TypeParticipation,
		}
		err := db.Transaction(func(tx *gorm.DB) error {
			return NewChallengeRepository(tx).CreateChallenge(ctx, dup, nil)
		})
		assert.ErrorIs(t, err, ErrInviteCodeTaken)
	})

	t.Run("find by invite code", func(t *testing.T) {
		c, err := repo.FindChallengeByInviteCode(ctx, public.InviteCode)
		require.NoError(t, err)
		assert.Equal(t, public.ID, c.ID)

		_, err = repo.FindChallengeByInviteCode(ctx, "00000000")
		assert.ErrorIs(t, err, ErrInvalidInviteCode)
	})

	t.Run("participants", func(t *testing.T) {
		require.NoError(t, repo.CreateParticipant(ctx, &challengeModel.Participant{ChallengeID: public.ID, UserID: student.ID}))

		err := db.Transaction(func(tx *gorm.DB) error {
			return NewChallengeRepository(tx).CreateParticipant(ctx, &challengeModel.Participant{ChallengeID: public.ID, UserID: student.ID})
		})
		assert.ErrorIs(t, err, ErrAlreadyParticipating)

		p, err := repo.FindParticipant(ctx, public.ID, student.ID)
		require.NoError(t, err)
		p.Progress = 42
		p.Completed = true
		p.PointsEarned = 100
		require.NoError(t, repo.UpdateParticipant(ctx, p))

		total, err := repo.SumCompletedPoints(ctx, student.ID)
		require.NoError(t, err)
		assert.Equal(t, 100, total)
	})

	t.Run("list by scope", func(t *testing.T) {
		got, err := repo.ListChallenges(ctx, ScopeFor(student), ListQuery{Filter: FilterAll, Today: time.Now(), ViewerID: student.ID})
		require.NoError(t, err)
		assert.ElementsMatch(t, []uuid.UUID{public.ID, ended.ID}, ids(got))

		for _, s := range got {
			if s.ID == public.ID {
				assert.EqualValues(t, 1, s.ParticipantCount)
				assert.True(t, s.IsParticipating)
				require.NotNil(t, s.UserProgress)
				assert.Equal(t, 42.0, *s.UserProgress)
			}
		}

		got, err = repo.ListChallenges(ctx, ScopeFor(academy), ListQuery{Filter: FilterActive, Today: time.Now(), ViewerID: academy.ID})
		require.NoError(t, err)
		assert.ElementsMatch(t, []uuid.UUID{public.ID, foreign.ID}, ids(got))

		got, err = repo.ListChallenges(ctx, ScopeFor(academy), ListQuery{Filter: FilterCompleted, Today: time.Now(), ViewerID: academy.ID})
		require.NoError(t, err)
		assert.ElementsMatch(t, []uuid.UUID{ended.ID}, ids(got))

		got, err = repo.ListChallenges(ctx, ScopeFor(student), ListQuery{Search: "corrida", Today: time.Now(), ViewerID: student.ID})
		require.NoError(t, err)
		assert.ElementsMatch(t, []uuid.UUID{public.ID}, ids(got))
	})

	t.Run("private visible after joining", func(t *testing.T) {
		testutils.CreateTestParticipant(db, private.ID, student.ID)
		got, err := repo.ListChallenges(ctx, ScopeFor(student), ListQuery{Filter: FilterActive, Today: time.Now(), ViewerID: student.ID})
		require.NoError(t, err)
		assert.Contains(t, ids(got), private.ID)
	})

	t.Run("award is idempotent", func(t *testing.T) {
		p := testutils.CreateTestParticipant(db, ended.ID, student.ID)

		awarded, err := repo.AwardParticipant(ctx, p, 50)
		require.NoError(t, err)
		assert.True(t, awarded)

		awarded, err = repo.AwardParticipant(ctx, p, 50)
		require.NoError(t, err)
		assert.False(t, awarded)

		var reloaded profileModel.Profile
		require.NoError(t, db.First(&reloaded, "id = ?", student.ID).Error)
		assert.Equal(t, 50, reloaded.Points)
	})

	t.Run("delete cascades participants", func(t *testing.T) {
		require.NoError(t, repo.DeleteChallenge(ctx, ended.ID))
		_, err := repo.FindChallengeByID(ctx, ended.ID)
		assert.ErrorIs(t, err, ErrChallengeNotFound)

		participants, err := repo.FindParticipantsByChallengeID(ctx, ended.ID)
		require.NoError(t, err)
		assert.Empty(t, participants)

		assert.ErrorIs(t, repo.DeleteChallenge(ctx, ended.ID), ErrChallengeNotFound)
	})

	t.Run("leave", func(t *testing.T) {
		require.NoError(t, repo.DeleteParticipant(ctx, private.ID, student.ID))
		assert.ErrorIs(t, repo.DeleteParticipant(ctx, private.ID, student.ID), ErrNotParticipating)
	})
}

func TestChallengeRepository_CreateWithOwner(t *testing.T) {
	db := testutils.SetupTestDB(t)
	repo := NewChallengeRepository(db)
	ctx := context.Background()

	academy := testutils.CreateTestProfile(db, testutils.WithRole(profileModel.RoleAcademy))
	today := challengeModel.DateOf(time.Now())
	newChallenge := func(code string) *challengeModel.Challenge {
		return &challengeModel.Challenge{
			Name: "owner " + code, Description: "d",
			StartDate: today, EndDate: today.AddDate(0, 0, 7),
			InviteCode: code, CreatedBy: academy.ID, IsPublic: true, AcademyID: &academy.ID,
			ChallengeType: challengeModel.TypeParticipation,
		}
	}

	owner := &challengeModel.Participant{UserID: academy.ID}
	created := newChallenge("OWNER001")
	require.NoError(t, repo.CreateChallenge(ctx, created, owner))
	assert.Equal(t, created.ID, owner.ChallengeID)

	p, err := repo.FindParticipant(ctx, created.ID, academy.ID)
	require.NoError(t, err)
	assert.Equal(t, owner.ID, p.ID)

	// 参与记录主键冲突，挑战也不应写入
	clash := &challengeModel.Participant{ID: owner.ID, UserID: academy.ID}
	err = db.Transaction(func(tx *gorm.DB) error {
		return NewChallengeRepository(tx).CreateChallenge(ctx, newChallenge("ROLLBK01"), clash)
	})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInviteCodeTaken)

	_, err = repo.FindChallengeByInviteCode(ctx, "ROLLBK01")
	assert.ErrorIs(t, err, ErrInvalidInviteCode)
}
