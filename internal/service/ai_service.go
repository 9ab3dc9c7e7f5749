package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"xtreme_region_backend/internal/config"
	"xtreme_region_backend/internal/model"
)

type AIService struct {
	config config.AIConfig
}

func NewAIService(cfg config.AIConfig) *AIService {
	return &AIService{config: cfg}
}

type AIChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatCompletionRequest struct {
	Model    string          `json:"model"`
	Messages []AIChatMessage `json:"messages"`
}

type ChatCompletionResponse struct {
	Choices []struct {
		Message AIChatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// agendaDraft AI返回的议程条目结构
type agendaDraft struct {
	Title       string `json:"title"`
	Duration    int    `json:"duration"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
}

// GenerateAgenda 根据会议主题和剩余时长生成议程草稿，仅返回建议不落库
func (s *AIService) GenerateAgenda(topic, description string, duration, remainingMinutes int, existing []model.AgendaItem) ([]AgendaItemInput, error) {
	budget := remainingMinutes
	if budget <= 0 {
		budget = duration
	}

	var existingDesc strings.Builder
	for _, item := range existing {
		fmt.Fprintf(&existingDesc, "- %s（%d分钟）\n", item.Title, item.Duration)
	}

	// 要求模型只输出JSON数组，便于解析
	systemContent := "你是一个会议策划助手。根据会议信息生成议程条目建议。" +
		"只输出一个JSON数组，不要输出任何其他文字。数组元素格式：" +
		`{"title":"条目标题","duration":分钟数,"description":"简要说明","priority":"low|medium|high"}。` +
		"所有条目的duration之和不得超过给定的剩余分钟数。"

	userContent := fmt.Sprintf("会议主题：%s\n会议说明：%s\n总时长：%d分钟\n剩余可安排：%d分钟\n",
		topic, description, duration, budget)
	if existingDesc.Len() > 0 {
		userContent += "已有议程：\n" + existingDesc.String()
	}

	reqBody := ChatCompletionRequest{
		Model: s.config.Model,
		Messages: []AIChatMessage{
			{Role: "system", Content: systemContent},
			{Role: "user", Content: userContent},
		},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequest("POST", s.config.BaseURL+"/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.config.APIKey)

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("AI API error (status %d): %s", resp.StatusCode, string(body))
	}

	var completion ChatCompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&completion); err != nil {
		return nil, err
	}
	if completion.Error != nil {
		return nil, fmt.Errorf("AI API error: %s", completion.Error.Message)
	}
	if len(completion.Choices) == 0 {
		return nil, fmt.Errorf("AI API returned no choices")
	}

	content := completion.Choices[0].Message.Content
	return parseAgendaDrafts(content)
}

// parseAgendaDrafts 容忍模型把JSON包在markdown代码块里
func parseAgendaDrafts(content string) ([]AgendaItemInput, error) {
	content = strings.TrimSpace(content)
	if start := strings.Index(content, "["); start >= 0 {
		if end := strings.LastIndex(content, "]"); end > start {
			content = content[start : end+1]
		}
	}

	var drafts []agendaDraft
	if err := json.Unmarshal([]byte(content), &drafts); err != nil {
		return nil, fmt.Errorf("failed to parse AI agenda response: %w", err)
	}

	items := make([]AgendaItemInput, 0, len(drafts))
	for _, d := range drafts {
		priority := model.AgendaPriority(d.Priority)
		if !model.ValidPriority(priority) {
			priority = model.PriorityMedium
		}
		items = append(items, AgendaItemInput{
			Title:       d.Title,
			Duration:    d.Duration,
			Description: d.Description,
			Status:      model.AgendaPending,
			Priority:    priority,
		})
	}
	return items, nil
}
