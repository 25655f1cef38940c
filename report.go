package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const defaultAnthropicModel = "claude-sonnet-4-5-20250929"
const defaultOpenAIModel = "gpt-4o-mini"

// Low temperature keeps the narrative close to the supplied figures.
const llmTemperature = 0.3

type llmReporter struct {
	cfg Config
}

func NewLLMReporter(cfg Config) *llmReporter {
	return &llmReporter{cfg: cfg}
}

func (r *llmReporter) GenerateReport(ctx context.Context, summary WeeklySummary) (string, error) {
	return r.complete(ctx, "report", buildReportPrompt(summary))
}

func (r *llmReporter) GenerateExecutiveSummary(ctx context.Context, report string) (string, error) {
	return r.complete(ctx, "exec-summary", buildExecSummaryPrompt(report))
}

func (r *llmReporter) complete(ctx context.Context, kind, prompt string) (string, error) {
	switch r.cfg.LLMProvider {
	case "openai":
		model := r.cfg.LLMModel
		if model == "" {
			model = defaultOpenAIModel
		}
		log.Printf("llm %s provider=openai model=%s", kind, model)
		return callOpenAI(ctx, r.cfg.OpenAIAPIKey, model, prompt)
	default:
		model := r.cfg.LLMModel
		if model == "" {
			model = defaultAnthropicModel
		}
		log.Printf("llm %s provider=anthropic model=%s", kind, model)
		return callAnthropic(ctx, r.cfg.AnthropicAPIKey, model, prompt)
	}
}

func buildReportPrompt(summary WeeklySummary) string {
	prevRevenue := "N/A"
	if summary.PrevWeekRevenueDKK != nil {
		prevRevenue = summary.PrevWeekRevenueDKK.String()
	}

	return fmt.Sprintf(`You are an ecommerce analytics assistant for a fashion brand.

Create a clear, factual weekly performance report based on this data:

Week label: %s
Period: %s to %s

Totals:
- Revenue (DKK): %s
- Revenue (USD): %s
- Revenue (EUR): %s
- Revenue (GBP): %s

Orders:
- Total orders: %d
- Orders by currency: DKK=%d, USD=%d, EUR=%d, GBP=%d

Previous week:
- Previous week revenue (DKK): %s

Write the report in Markdown with these sections:

## Overview
- Short description of the week.

## Revenue
- Key revenue figures in DKK, USD, EUR, GBP.

## Orders
- Total orders and any notable changes.

## Currency Mix
- Which currencies contributed most to revenue and order volume.

## Week-over-Week
- Compare this week vs previous week on revenue and orders (only if previous week data exists).

Rules:
- Use only the data given; do not invent numbers.
- Keep tone businesslike and concise.
- No emojis.`,
		summary.WeekLabel,
		summary.StartDate.UTC().Format("2006-01-02"), summary.EndDate.UTC().Format("2006-01-02"),
		summary.TotalRevenueDKK, summary.TotalRevenueUSD, summary.TotalRevenueEUR, summary.TotalRevenueGBP,
		summary.OrderCount,
		summary.DKKOrders, summary.USDOrders, summary.EUROrders, summary.GBPOrders,
		prevRevenue,
	)
}

func buildExecSummaryPrompt(report string) string {
	return fmt.Sprintf(`You are writing for the CEO.

Based on the following detailed weekly ecommerce report, write a short executive summary:

%s

Guidelines:
- Return 3 to 5 bullet points.
- Each bullet should start with a bold label, e.g. "**Revenue**: ..." or "**Orders**: ...".
- Focus on: overall revenue in DKK, growth/decline vs last week, changes in order volume, and any notable shift in currency mix.
- Use clear, decision-focused language.
- No emojis.`, report)
}

// --- Anthropic ---

func callAnthropic(ctx context.Context, apiKey, model, prompt string) (string, error) {
	client := anthropic.NewClient(option.WithAPIKey(apiKey))

	message, err := client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(model),
		MaxTokens:   4096,
		Temperature: anthropic.Float(llmTemperature),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		log.Printf("llm anthropic error: %v", err)
		return "", fmt.Errorf("Anthropic API error: %w", err)
	}

	for _, block := range message.Content {
		if block.Type == "text" {
			log.Printf("llm anthropic response size=%d tokens_in=%d tokens_out=%d",
				len(block.Text), message.Usage.InputTokens, message.Usage.OutputTokens)
			return strings.TrimSpace(block.Text), nil
		}
	}
	return "", fmt.Errorf("no text content in Anthropic response")
}

// --- OpenAI ---

type openAIRequest struct {
	Model       string          `json:"model"`
	Messages    []openAIMessage `json:"messages"`
	Temperature float64         `json:"temperature"`
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func callOpenAI(ctx context.Context, apiKey, model, prompt string) (string, error) {
	reqBody := openAIRequest{
		Model: model,
		Messages: []openAIMessage{
			{Role: "user", Content: prompt},
		},
		Temperature: llmTemperature,
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", "https://api.openai.com/v1/chat/completions", bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+apiKey)

	resp, err := externalHTTPClient.Do(req)
	if err != nil {
		log.Printf("llm openai error: %v", err)
		return "", fmt.Errorf("OpenAI API error: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}

	var openAIResp openAIResponse
	if err := json.Unmarshal(respBody, &openAIResp); err != nil {
		return "", fmt.Errorf("parsing OpenAI response: %w", err)
	}

	if openAIResp.Error != nil {
		log.Printf("llm openai api error: %s", openAIResp.Error.Message)
		return "", fmt.Errorf("OpenAI API error: %s", openAIResp.Error.Message)
	}

	if len(openAIResp.Choices) == 0 {
		return "", fmt.Errorf("no choices in OpenAI response")
	}

	log.Printf("llm openai response size=%d", len(openAIResp.Choices[0].Message.Content))
	return strings.TrimSpace(openAIResp.Choices[0].Message.Content), nil
}
