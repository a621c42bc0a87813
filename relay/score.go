// Copyright 2026 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package relay

import (
	"strings"
	"unicode"
)

const (
	// DefaultThreshold is the score at or above which an account is judged
	// a bot
	DefaultThreshold = 0.7

	baseScore      = 0.2
	emptyBioScore  = 0.2
	digitRunScore  = 0.3
	spamTokenScore = 0.3

	minDigitRun = 4
)

var spamTokens = []string{
	"airdrop",
	"buy now",
	"click here",
	"crypto",
	"follow back",
	"free",
	"giveaway",
	"promo",
	"winner",
}

// Score rates how likely a profile is to belong to a bot, from 0 to 1
func Score(username, bio string) float64 {
	score := baseScore
	if strings.TrimSpace(bio) == "" {
		score += emptyBioScore
	}
	if longestDigitRun(username) >= minDigitRun {
		score += digitRunScore
	}
	if containsSpam(username) || containsSpam(bio) {
		score += spamTokenScore
	}
	return min(score, 1)
}

func longestDigitRun(s string) int {
	longest, run := 0, 0
	for _, r := range s {
		if unicode.IsDigit(r) {
			run++
			longest = max(longest, run)
			continue
		}
		run = 0
	}
	return longest
}

func containsSpam(s string) bool {
	s = strings.ToLower(s)
	for _, token := range spamTokens {
		if strings.Contains(s, token) {
			return true
		}
	}
	return false
}
