package constants

const (
	HealthPath  = "/health"  // 存活检查
	ReadyPath   = "/ready"   // 就绪检查, 恢复扫描完成前返回 503
	MetricsPath = "/metrics" // prometheus 指标
)

const (
	EnqueueSubmissionPath = "/EnqueueSubmission" // 提交入队, 供创建提交的服务调用
	GetCheckerStatusPath  = "/GetCheckerStatus"  // 获取判定器状态
	ExportCheatReportPath = "/ExportCheatReport" // 导出作弊提交报表
)
