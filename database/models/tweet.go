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

package models

// Tweet is a post in the tweet store. TweetID starts at zero, so it is kept
// apart from the auto-incremented row id.
type Tweet struct {
	Author   []byte `gorm:"index;size:28"`
	Content  string `gorm:"size:1120"`
	ID       uint   `gorm:"primarykey"`
	TweetID  uint64 `gorm:"uniqueIndex"`
	PostedAt int64
	Deleted  bool
}

func (Tweet) TableName() string {
	return "tweet"
}

// LastTweet is the per-author rate limit marker
type LastTweet struct {
	Author   []byte `gorm:"uniqueIndex;size:28"`
	ID       uint   `gorm:"primarykey"`
	PostedAt int64
}

func (LastTweet) TableName() string {
	return "last_tweet"
}
