// participant 终端版参与者：加入活动后在命令行逐题作答。
package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"EventHub/internal/client"
	"EventHub/internal/config"
	"EventHub/internal/eventhub"
	"EventHub/internal/service"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
)

var htmlText = strings.NewReplacer("<br/>", "\n", "<br>", "\n", "<strong>", "", "</strong>", "")

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("加载配置文件失败: %v", err)
	}

	apiURL := pflag.String("api", cfg.Engine.BaseURL, "后端API地址")
	eventID := pflag.Uint64("event", 0, "活动ID")
	userID := pflag.String("user", "", "用户标识")
	name := pflag.String("name", "", "昵称")
	email := pflag.String("email", "", "邮箱，可为空")
	delay := pflag.Duration("bot-delay", cfg.Engine.BotDelay, "机器人消息延迟")
	verbose := pflag.BoolP("verbose", "v", false, "输出调试日志")
	pflag.Parse()

	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetLevel(logrus.WarnLevel)
	if *verbose {
		logger.SetLevel(logrus.DebugLevel)
	}
	if *eventID == 0 || strings.TrimSpace(*userID) == "" || strings.TrimSpace(*name) == "" {
		pflag.Usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c := client.New(*apiURL, nil)
	req := service.JoinRequest{EventID: *eventID, UserID: *userID, Name: *name}
	if *email != "" {
		req.Email = email
	}
	participant, err := c.Join(ctx, req)
	if err != nil {
		logger.Fatalf("加入活动失败: %v", err)
	}

	session, err := eventhub.Load(ctx, c, *eventID, participant.ID, eventhub.Options{BotDelay: *delay, Logger: logger})
	if err != nil {
		logger.Fatalf("加载活动失败: %v", err)
	}
	event := session.Event()
	fmt.Printf("== %s ==\n", event.Title)
	out := newChatPrinter(os.Stdout)
	out.Print(session.Chat().Entries())

	in := bufio.NewScanner(os.Stdin)
	for {
		printPrompt(session)
		if !in.Scan() {
			return
		}
		line := strings.TrimSpace(in.Text())

		var runErr error
		switch {
		case line == "/quit":
			return
		case line == "/rank":
			printRankings(session)
			continue
		case line == "/reset":
			var ok bool
			ok, runErr = session.Reset(ctx, func() bool { return confirm(in) })
			if ok {
				out.Reset()
				out.Print(session.Chat().Entries())
				continue
			}
		case strings.HasPrefix(line, "/rate"):
			n, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(line, "/rate")))
			if err != nil {
				fmt.Println("用法: /rate 1-5")
				continue
			}
			_, runErr = session.Rate(ctx, n)
		default:
			_, runErr = session.SubmitAnswer(ctx, pickOption(session, line), isOption(session, line))
		}
		if runErr != nil {
			// 失败后本地记录可能已被服务端记录替换，整体重绘
			fmt.Printf("! %v\n", runErr)
			fmt.Println("-- 聊天记录已与服务端同步 --")
			out.Reset()
		}
		out.Print(session.Chat().Entries())
		if runErr != nil && ctx.Err() != nil {
			return
		}
	}
}

// chatPrinter 按条目标识输出尚未打印过的聊天记录
type chatPrinter struct {
	w    io.Writer
	seen map[string]bool
}

func newChatPrinter(w io.Writer) *chatPrinter {
	return &chatPrinter{w: w, seen: make(map[string]bool)}
}

func (p *chatPrinter) Reset() {
	p.seen = make(map[string]bool)
}

// Print 输出未打印过的条目；本地条目变为失败时会带标记再输出一次
func (p *chatPrinter) Print(entries []eventhub.Entry) {
	for _, e := range entries {
		key := entryKey(e)
		if p.seen[key] {
			continue
		}
		p.seen[key] = true

		who := "🤖"
		if e.Message.ParticipantName != nil {
			who = *e.Message.ParticipantName
		} else if e.Message.ParticipantID != nil {
			who = "👤"
		}
		mark := ""
		if e.State == eventhub.Failed {
			mark = " (未送达)"
		}
		_, _ = fmt.Fprintf(p.w, "%s: %s%s\n", who, htmlText.Replace(e.Message.Text), mark)
	}
}

func entryKey(e eventhub.Entry) string {
	if e.LocalID != "" {
		if e.State == eventhub.Failed {
			return e.LocalID + "/failed"
		}
		return e.LocalID
	}
	return "m" + strconv.FormatUint(e.Message.ID, 10)
}

func printPrompt(s *eventhub.Session) {
	a := s.Affordance()
	switch a.Kind {
	case eventhub.AffordanceQuickOptions:
		for i, opt := range a.Options {
			fmt.Printf("  [%d] %s\n", i+1, opt)
		}
	case eventhub.AffordanceRating:
		fmt.Println("  /rate 1-5")
	}
	p := s.Participant()
	fmt.Printf("(%d pts) > ", p.Points)
}

// pickOption 快捷选项题允许输入序号
func pickOption(s *eventhub.Session, line string) string {
	a := s.Affordance()
	if a.Kind != eventhub.AffordanceQuickOptions {
		return line
	}
	if n, err := strconv.Atoi(line); err == nil && n >= 1 && n <= len(a.Options) {
		return a.Options[n-1]
	}
	return line
}

func isOption(s *eventhub.Session, line string) bool {
	a := s.Affordance()
	if a.Kind != eventhub.AffordanceQuickOptions {
		return false
	}
	picked := pickOption(s, line)
	for _, opt := range a.Options {
		if opt == picked {
			return true
		}
	}
	return false
}

func printRankings(s *eventhub.Session) {
	for _, r := range s.Rankings() {
		fmt.Printf("#%d %s %d pts %s\n", r.Position, r.Participant.Name, r.Participant.Points, strings.Join(r.Badges, " "))
	}
}

func confirm(in *bufio.Scanner) bool {
	fmt.Print("确定要清空全部进度吗？(y/N) ")
	if !in.Scan() {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(in.Text()))
	return answer == "y" || answer == "yes"
}
