package persistence

import "time"

// Table definitions consumed by gorm AutoMigrate. Repositories query with database/sql.

type gameTable struct {
	GameID            int64      `gorm:"column:game_id;primaryKey;autoIncrement:false"`
	GameDateUTC       time.Time  `gorm:"column:game_date_utc;not null;index"`
	Status            string     `gorm:"column:status;size:16;not null;index"`
	HomeTeam          string     `gorm:"column:home_team;size:8;not null"`
	AwayTeam          string     `gorm:"column:away_team;size:8;not null"`
	HomeScore         *int       `gorm:"column:home_score"`
	AwayScore         *int       `gorm:"column:away_score"`
	Scorers           []byte     `gorm:"column:scorers;type:jsonb"`
	Raw               []byte     `gorm:"column:raw;type:jsonb"`
	RecapText         *string    `gorm:"column:recap_text;type:text"`
	SummaryLine       *string    `gorm:"column:summary_line;size:200"`
	NextGameStoryline *string    `gorm:"column:next_game_storyline;type:text"`
	RecapGenerated    bool       `gorm:"column:recap_generated;not null;default:false"`
	BasicStatsFetched bool       `gorm:"column:basic_stats_fetched;not null;default:false"`
	VideosFetched     bool       `gorm:"column:videos_fetched;not null;default:false"`
	RedditFetched     bool       `gorm:"column:reddit_fetched;not null;default:false"`
	QuotesFetched     bool       `gorm:"column:quotes_fetched;not null;default:false"`
	StatusUpdatedAt   *time.Time `gorm:"column:status_updated_at"`
	CompletedAt       *time.Time `gorm:"column:completed_at"`
	ArchivedAt        *time.Time `gorm:"column:archived_at"`
	StandingsSnapshot []byte     `gorm:"column:standings_snapshot;type:jsonb"`
	NextOpponent      *string    `gorm:"column:next_opponent;size:8"`
	NextGameDate      *time.Time `gorm:"column:next_game_date"`
	CreatedAt         time.Time  `gorm:"column:created_at;not null"`
	UpdatedAt         time.Time  `gorm:"column:updated_at;not null"`
}

func (gameTable) TableName() string { return "games" }

type videoTable struct {
	ID           int64      `gorm:"column:id;primaryKey"`
	GameID       int64      `gorm:"column:game_id;not null;index;uniqueIndex:uq_game_video,priority:1"`
	YouTubeID    string     `gorm:"column:youtube_id;size:32;not null;uniqueIndex:uq_game_video,priority:2"`
	Title        string     `gorm:"column:title;type:text;not null"`
	ChannelName  *string    `gorm:"column:channel_name"`
	ThumbnailURL *string    `gorm:"column:thumbnail_url;type:text"`
	VideoType    string     `gorm:"column:video_type;size:32;not null;index"`
	GoalTime     *string    `gorm:"column:goal_time;size:16"`
	ScorerName   *string    `gorm:"column:scorer_name"`
	PublishedAt  *time.Time `gorm:"column:published_at"`
	CreatedAt    time.Time  `gorm:"column:created_at;not null"`
	Game         gameTable  `gorm:"foreignKey:GameID;references:GameID;constraint:OnDelete:CASCADE"`
}

func (videoTable) TableName() string { return "videos" }

type playerInfoTable struct {
	NHLPlayerID   int64      `gorm:"column:nhl_player_id;primaryKey;autoIncrement:false"`
	Name          string     `gorm:"column:name;not null;index"`
	Position      *string    `gorm:"column:position;size:4"`
	JerseyNumber  *int       `gorm:"column:jersey_number"`
	Birthdate     *time.Time `gorm:"column:birthdate;type:date"`
	NHLProfileURL *string    `gorm:"column:nhl_profile_url"`
	HeadshotURL   *string    `gorm:"column:headshot_url"`
}

func (playerInfoTable) TableName() string { return "player_info" }

type playerTeamHistoryTable struct {
	ID        int64           `gorm:"column:id;primaryKey"`
	PlayerID  int64           `gorm:"column:player_id;not null;index:ix_player_history,priority:1"`
	TeamID    string          `gorm:"column:team_id;size:8;not null;index:ix_current_roster,priority:1"`
	TeamName  string          `gorm:"column:team_name;not null"`
	StartDate time.Time       `gorm:"column:start_date;type:date;not null;index:ix_player_history,priority:2"`
	EndDate   *time.Time      `gorm:"column:end_date;type:date;index:ix_current_roster,priority:2"`
	Player    playerInfoTable `gorm:"foreignKey:PlayerID;references:NHLPlayerID;constraint:OnDelete:CASCADE"`
}

func (playerTeamHistoryTable) TableName() string { return "player_team_history" }

type userTable struct {
	ClerkID         string    `gorm:"column:clerk_id;primaryKey;size:64"`
	Email           string    `gorm:"column:email;not null;index"`
	Username        *string   `gorm:"column:username;uniqueIndex"`
	FirstName       *string   `gorm:"column:first_name"`
	LastName        *string   `gorm:"column:last_name"`
	ProfileImageURL *string   `gorm:"column:profile_image_url"`
	Role            string    `gorm:"column:role;size:16;not null;default:user"`
	IsActive        bool      `gorm:"column:is_active;not null;default:true"`
	IsBanned        bool      `gorm:"column:is_banned;not null;default:false"`
	CreatedAt       time.Time `gorm:"column:created_at;not null"`
	UpdatedAt       time.Time `gorm:"column:updated_at;not null"`
}

func (userTable) TableName() string { return "users" }

type commentTable struct {
	ID            int64      `gorm:"column:id;primaryKey"`
	GameID        int64      `gorm:"column:game_id;not null;index"`
	UserID        string     `gorm:"column:user_id;size:64;not null;index"`
	UserName      string     `gorm:"column:user_name;not null"`
	UserAvatarURL *string    `gorm:"column:user_avatar_url"`
	ParentID      *int64     `gorm:"column:parent_id;index"`
	Content       string     `gorm:"column:content;type:text;not null"`
	IsDeleted     bool       `gorm:"column:is_deleted;not null;default:false"`
	IsFlagged     bool       `gorm:"column:is_flagged;not null;default:false"`
	DeletedBy     *string    `gorm:"column:deleted_by;size:64"`
	DeletedAt     *time.Time `gorm:"column:deleted_at"`
	EditedAt      *time.Time `gorm:"column:edited_at"`
	CreatedAt     time.Time  `gorm:"column:created_at;not null;index"`
	UpdatedAt     time.Time  `gorm:"column:updated_at;not null"`
	Game          gameTable  `gorm:"foreignKey:GameID;references:GameID;constraint:OnDelete:CASCADE"`
	User          userTable  `gorm:"foreignKey:UserID;references:ClerkID;constraint:OnDelete:CASCADE"`
}

func (commentTable) TableName() string { return "comments" }

type quoteTable struct {
	ID              int64     `gorm:"column:id;primaryKey"`
	GameID          int64     `gorm:"column:game_id;not null;index"`
	Text            string    `gorm:"column:text;type:text;not null"`
	SpeakerName     string    `gorm:"column:speaker_name;not null"`
	SpeakerRole     *string   `gorm:"column:speaker_role"`
	SpeakerImageURL *string   `gorm:"column:speaker_image_url"`
	Source          *string   `gorm:"column:source"`
	SourceURL       *string   `gorm:"column:source_url"`
	CreatedAt       time.Time `gorm:"column:created_at;not null"`
	Game            gameTable `gorm:"foreignKey:GameID;references:GameID;constraint:OnDelete:CASCADE"`
}

func (quoteTable) TableName() string { return "quotes" }

type milestoneTable struct {
	ID             int64     `gorm:"column:id;primaryKey"`
	PlayerID       int64     `gorm:"column:player_id;not null;index"`
	PlayerName     string    `gorm:"column:player_name;not null"`
	GameID         *int64    `gorm:"column:game_id;index"`
	MilestoneType  string    `gorm:"column:milestone_type;size:32;not null"`
	MilestoneValue int       `gorm:"column:milestone_value;not null"`
	Description    string    `gorm:"column:description;type:text"`
	Achieved       bool      `gorm:"column:achieved;not null;default:false"`
	CurrentValue   *int      `gorm:"column:current_value"`
	CreatedAt      time.Time `gorm:"column:created_at;not null"`
}

func (milestoneTable) TableName() string { return "milestones" }

// schemaModels lists tables in dependency order.
func schemaModels() []interface{} {
	return []interface{}{
		&gameTable{},
		&videoTable{},
		&playerInfoTable{},
		&playerTeamHistoryTable{},
		&userTable{},
		&commentTable{},
		&quoteTable{},
		&milestoneTable{},
	}
}
