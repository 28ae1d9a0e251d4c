package challenge

import (
	"crypto/rand"
	"math/big"
	"strings"

	challengeModel "fittrack/challenge-service/internal/model/challenge"
)

const inviteCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateInviteCode 生成 8 位大写字母和数字组成的邀请码
func GenerateInviteCode() (string, error) {
	alphabetSize := big.NewInt(int64(len(inviteCodeAlphabet)))
	var b strings.Builder
	b.Grow(challengeModel.InviteCodeLength)
	for i := 0; i < challengeModel.InviteCodeLength; i++ {
		n, err := rand.Int(rand.Reader, alphabetSize)
		if err != nil {
			return "", err
		}
		b.WriteByte(inviteCodeAlphabet[n.Int64()])
	}
	return b.String(), nil
}

// NormalizeInviteCode 去掉首尾空白并转为大写
func NormalizeInviteCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// IsWellFormedInviteCode 检查邀请码格式，格式不对的直接当作无效邀请码，不查库
func IsWellFormedInviteCode(code string) bool {
	if len(code) != challengeModel.InviteCodeLength {
		return false
	}
	for i := 0; i < len(code); i++ {
		if !strings.ContainsRune(inviteCodeAlphabet, rune(code[i])) {
			return false
		}
	}
	return true
}
