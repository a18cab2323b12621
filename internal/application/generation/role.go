// Package generation 实现多层回退编排器与共识生成流水线
package generation

// AgentRole 标识一次生成调用的用途，决定候选模型的选取
type AgentRole string

const (
	// RoleResearcher 技术事实整理
	RoleResearcher AgentRole = "researcher"
	// RoleReasoner 深度分析
	RoleReasoner AgentRole = "reasoner"
	// RoleOutliner 大纲生成（轻量角色）
	RoleOutliner AgentRole = "outliner"
	// RoleWriter 成文
	RoleWriter AgentRole = "writer"
	// RoleArchitect 共识流水线的结构化大纲
	RoleArchitect AgentRole = "architect"
	// RoleVerifier 共识流水线的事实校验，不经过角色注册表
	RoleVerifier AgentRole = "verifier"
)

// pipelineRoles 需要在注册表中至少有一个主候选的角色
//
// verifier 走独立的双候选配置，不在此列。
var pipelineRoles = []AgentRole{
	RoleResearcher,
	RoleReasoner,
	RoleOutliner,
	RoleWriter,
	RoleArchitect,
}
