// Package generation 实现多层回退编排器与共识生成流水线
package generation

import (
	"fmt"
	"strings"
)

// maxResearchContextChars 外部研究材料嵌入提示词前的截断上限
//
// 阶段之间的中间产物原样传递不截断，只有外部来源的材料受此约束。
const maxResearchContextChars = 30000

// truncateResearch 截断外部研究材料以约束请求体大小
func truncateResearch(text string) string {
	if len(text) <= maxResearchContextChars {
		return text
	}
	return text[:maxResearchContextChars]
}

const researcherSystem = "You are a senior technical researcher. You extract verifiable technical facts and ignore marketing claims."

func buildResearcherPrompt(topic, researchContext string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Collect the key technical facts about the following topic.\n\nTopic: %s\n", topic)
	if researchContext != "" {
		fmt.Fprintf(&b, "\nUse the following research material as your primary source:\n\n%s\n", truncateResearch(researchContext))
	}
	b.WriteString("\nReturn a concise list of technical facts. Do not speculate. Do not include an introduction or a conclusion.")
	return b.String()
}

const reasonerSystem = "You are a technical analyst. You reason step by step about causes, mechanisms and tradeoffs."

func buildReasonerPrompt(topic, research, notes string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Produce a deep-dive analysis of the topic below.\n\nTopic: %s\n\nTechnical facts:\n%s\n", topic, research)
	if notes != "" {
		fmt.Fprintf(&b, "\nEditor notes to take into account:\n%s\n", notes)
	}
	b.WriteString("\nExplain root causes, mechanisms and practical implications. Write in plain prose.")
	return b.String()
}

const outlinerSystem = "You are a content strategist. You structure technical articles for search visibility."

func buildOutlinerPrompt(topic, analysis string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Create a markdown outline for an article about:\n\nTopic: %s\n\nBased on this analysis:\n%s\n", topic, analysis)
	b.WriteString("\nReturn only the outline, using markdown headings (##, ###). No prose outside the outline.")
	return b.String()
}

const writerSystem = "You are a technical writer. You produce complete, publication-ready markdown articles."

func buildWriterPrompt(topic, outline, analysis, research, notes string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Write the full article in markdown.\n\nTopic: %s\n\nFollow this outline:\n%s\n\nAnalysis to draw from:\n%s\n\nTechnical facts to stay consistent with:\n%s\n", topic, outline, analysis, research)
	if notes != "" {
		fmt.Fprintf(&b, "\nEditor notes:\n%s\n", notes)
	}
	b.WriteString("\nWrite the complete article. Do not add meta commentary about the writing process.")
	return b.String()
}

const architectSystem = "You are an SEO content architect. You design article structures grounded in research."

func buildArchitectPrompt(topic, researchText string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Design a structured SEO outline for an article.\n\nTopic: %s\n\nResearch material:\n%s\n", topic, truncateResearch(researchText))
	b.WriteString("\nReturn a markdown outline with a proposed title, H2/H3 structure and one-line notes per section.")
	return b.String()
}

const verifierSystem = "You are a fact checker. You verify claims strictly against the provided source material."

func buildVerifierPrompt(outline, researchText string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Check the outline below against the research material for factual consistency.\n\nOutline:\n%s\n\nResearch material:\n%s\n", outline, truncateResearch(researchText))
	b.WriteString("\nList any claims not supported by the material, and corrections where needed. If everything is consistent, say so explicitly.")
	return b.String()
}

func buildConsensusWriterPrompt(topic, outline, verificationNotes, researchText string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Write the full article in markdown.\n\nTopic: %s\n\nFollow this outline:\n%s\n\nApply these verification notes:\n%s\n\nResearch material:\n%s\n", topic, outline, verificationNotes, truncateResearch(researchText))
	b.WriteString("\nWrite the complete article. Stay strictly within what the research material supports.")
	return b.String()
}
