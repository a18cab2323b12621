// Package generation 实现多层回退编排器与共识生成流水线
package generation

import (
	"fmt"

	"blog-ops-api/internal/config"
	"blog-ops-api/internal/infrastructure/llm"
)

// Candidate 一个 (后端, 模型) 候选
type Candidate struct {
	Backend string
	Model   string
}

// Registry 角色到候选列表的静态映射
//
// 进程启动时构建，运行期只读。每个流水线角色至少要有一个主候选，
// 候选按偏好降序排列：下标 0 为主候选，下标 1 为备选。
type Registry struct {
	roles map[AgentRole][]Candidate
}

// defaultRoles 内置候选表，配置未覆盖的角色使用这里的默认值
func defaultRoles() map[AgentRole][]Candidate {
	return map[AgentRole][]Candidate{
		RoleResearcher: {
			{Backend: llm.BackendOpenRouter, Model: "deepseek/deepseek-chat-v3-0324"},
			{Backend: llm.BackendOpenRouter, Model: "google/gemini-2.0-flash-001"},
		},
		RoleReasoner: {
			{Backend: llm.BackendOpenRouter, Model: "deepseek/deepseek-r1"},
			{Backend: llm.BackendOpenRouter, Model: "qwen/qwq-32b"},
		},
		RoleOutliner: {
			{Backend: llm.BackendOpenRouter, Model: "google/gemini-2.0-flash-001"},
			{Backend: llm.BackendOpenRouter, Model: "meta-llama/llama-3.3-70b-instruct"},
		},
		RoleWriter: {
			{Backend: llm.BackendOpenRouter, Model: "deepseek/deepseek-chat-v3-0324"},
			{Backend: llm.BackendOpenRouter, Model: "qwen/qwen-2.5-72b-instruct"},
		},
		RoleArchitect: {
			{Backend: llm.BackendOpenRouter, Model: "deepseek/deepseek-chat-v3-0324"},
			{Backend: llm.BackendOpenRouter, Model: "google/gemini-2.0-flash-001"},
		},
	}
}

// NewRegistry 合并配置与内置默认表并校验完整性
func NewRegistry(overrides map[string][]config.CandidateConfig) (*Registry, error) {
	roles := defaultRoles()

	for name, candidates := range overrides {
		role := AgentRole(name)
		list := make([]Candidate, 0, len(candidates))
		for _, c := range candidates {
			if c.Backend == "" || c.Model == "" {
				return nil, fmt.Errorf("role %s has candidate with empty backend or model", name)
			}
			list = append(list, Candidate{Backend: c.Backend, Model: c.Model})
		}
		roles[role] = list
	}

	// 每个流水线角色必须解析出至少一个主候选
	for _, role := range pipelineRoles {
		if len(roles[role]) == 0 {
			return nil, fmt.Errorf("role %s has no registered candidates", role)
		}
	}

	return &Registry{roles: roles}, nil
}

// Primary 返回角色的主候选
func (r *Registry) Primary(role AgentRole) (Candidate, bool) {
	list := r.roles[role]
	if len(list) == 0 {
		return Candidate{}, false
	}
	return list[0], true
}

// Alternate 返回角色的备选，没有则返回 false
func (r *Registry) Alternate(role AgentRole) (Candidate, bool) {
	list := r.roles[role]
	if len(list) < 2 {
		return Candidate{}, false
	}
	return list[1], true
}
