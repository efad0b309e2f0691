package model

type EnqueueSubmissionParam struct {
	CommonParam `json:"-"`

	SubmissionID uint64 `json:"submission_id" binding:"required"`
}

type GetCheckerStatusParam struct {
	CommonParam `json:"-"`
}

type GetCheckerStatusResponse struct {
	Ready      bool `json:"ready"`
	QueueDepth int  `json:"queue_depth"`
}

type ExportCheatReportParam struct {
	CommonParam `json:"-"`

	GameID *uint64 `form:"game_id"`
	Format string  `form:"format" binding:"required,oneof=csv xlsx"`
}

type GetJobStatusesParam struct {
	CommonParam `json:"-"`
}

type JobNameParam struct {
	CommonParam `json:"-"`

	Name string `json:"name" binding:"required"`
}
