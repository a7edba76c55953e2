package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/educhain/records/internal/models"
	"github.com/educhain/records/internal/repository"
	"github.com/educhain/records/internal/session"
	"github.com/educhain/records/internal/stacks"
	"github.com/educhain/records/internal/token"
	"github.com/educhain/records/internal/wallet"
)

var (
	version   string
	buildDate string
)

// cli bundles the clients the shell commands operate on.
type cli struct {
	manager   *session.Manager
	builder   *stacks.Builder
	broadcast *stacks.BroadcastClient
	query     *stacks.QueryClient
	tokens    *token.Service
	directory *repository.MemoryDirectory
	baseURL   string
}

// repl runs the interactive shell loop, accepting commands to manage
// the wallet session and on-chain records.
func repl(c *cli) {
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("educhain> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		args := strings.Fields(line)
		if len(args) == 0 {
			continue
		}
		switch args[0] {
		case "help":
			fmt.Println("Available commands: help, connect, complete, whoami, add <course>|<grade>|<year>|<institution>, records [address], share <student-id> [hours], verify <token>, logout, exit")
		case "connect":
			if err := c.manager.BeginSignIn(); err != nil {
				fmt.Println("Error:", err)
				continue
			}
			fmt.Println("Sign-in started, run 'complete' to finish")
		case "complete":
			sess, err := c.manager.CompletePendingSignIn()
			if err != nil {
				fmt.Println("Error:", err)
				continue
			}
			fmt.Println("Signed in as", sess.Principal)
		case "whoami":
			sess := c.manager.Current()
			if !sess.SignedIn {
				fmt.Println("Not signed in")
				continue
			}
			fmt.Println(sess.Principal)
		case "add":
			c.addRecord(strings.TrimSpace(strings.TrimPrefix(line, "add")))
		case "records":
			c.listRecords(args[1:])
		case "share":
			if len(args) < 2 {
				fmt.Println("Usage: share <student-id> [hours]")
				continue
			}
			c.share(args[1], args[2:])
		case "verify":
			if len(args) < 2 {
				fmt.Println("Usage: verify <token>")
				continue
			}
			subjectID, err := c.tokens.Validate(args[1])
			if err != nil {
				fmt.Println("Invalid token:", err)
				continue
			}
			fmt.Println("Token valid for", subjectID)
		case "logout":
			c.manager.SignOut()
			fmt.Println("Signed out")
		case "exit":
			fmt.Println("Bye")
			return
		default:
			fmt.Println("Unknown command. Type 'help' for a list of commands.")
		}
	}
}

// addRecord parses "course|grade|year|institution", builds the
// transaction for the signed-in principal and broadcasts it.
func (c *cli) addRecord(input string) {
	parts := strings.Split(input, "|")
	if len(parts) != 4 {
		fmt.Println("Usage: add <course>|<grade>|<year>|<institution>")
		return
	}
	year, err := strconv.Atoi(strings.TrimSpace(parts[2]))
	if err != nil {
		fmt.Println("Invalid year:", parts[2])
		return
	}

	principal, ok := c.manager.CurrentPrincipal()
	if !ok {
		fmt.Println("Not signed in")
		return
	}

	tx, err := c.builder.BuildAddRecordTx(principal,
		strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1]),
		year, strings.TrimSpace(parts[3]))
	if err != nil {
		fmt.Println("Error:", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	txid, err := c.broadcast.Submit(ctx, tx)
	if err != nil {
		fmt.Println("Broadcast failed:", err)
		return
	}

	// Track the record locally as pending until the chain confirms it.
	record := models.AcademicRecord{
		ID:            uuid.NewString(),
		Course:        strings.TrimSpace(parts[0]),
		Grade:         strings.TrimSpace(parts[1]),
		Year:          year,
		Institution:   strings.TrimSpace(parts[3]),
		Verified:      false,
		TransactionID: txid,
	}
	if err := c.directory.AddRecord(ctx, principal, record); err != nil {
		fmt.Println("Warning: could not track record locally:", err)
	}
	fmt.Println("Transaction submitted:", txid)
}

// listRecords fetches the records of the given address, or the
// signed-in principal when none is given.
func (c *cli) listRecords(args []string) {
	var subject models.Principal
	if len(args) > 0 {
		subject = models.Principal(args[0])
	} else {
		principal, ok := c.manager.CurrentPrincipal()
		if !ok {
			fmt.Println("Not signed in; pass an address or run 'connect'")
			return
		}
		subject = principal
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	records, err := c.query.FetchRecords(ctx, subject)
	if err != nil {
		fmt.Println("Query failed:", err)
		return
	}
	if len(records) == 0 {
		fmt.Println("No records found")
		return
	}
	for _, r := range records {
		status := "pending"
		if r.Verified {
			status = "verified"
		}
		fmt.Printf("%s  %s (%s, %d) %s [%s]\n", r.ID, r.Course, r.Grade, r.Year, r.Institution, status)
	}
}

// share issues a share link for the given student id.
func (c *cli) share(studentID string, rest []string) {
	validity := time.Duration(0)
	if len(rest) > 0 {
		hours, err := strconv.Atoi(rest[0])
		if err != nil || hours <= 0 {
			fmt.Println("Invalid hours:", rest[0])
			return
		}
		validity = time.Duration(hours) * time.Hour
	}

	issued, err := c.tokens.Issue(studentID, validity)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	fmt.Println("Share link:", token.ShareLink(c.baseURL, issued))
	fmt.Println("Expires at:", issued.ExpiresAt.Format(time.RFC3339))
}

// main parses command-line flags and starts the interactive shell.
func main() {
	var (
		keyFile         string
		nodeURL         string
		contractAddress string
		contractName    string
		network         string
		tokenSecret     string
		baseURL         string
		showVer         bool
	)

	flag.StringVar(&keyFile, "key", "wallet.key", "path to wallet key file")
	flag.StringVar(&nodeURL, "node", "https://api.testnet.hiro.so", "ledger node RPC base URL")
	flag.StringVar(&contractAddress, "contract-address", "ST1PQHQKV0RJXZFY1DGX8MNSNYVE3VGZJSRTPGZGM", "records contract deployer address")
	flag.StringVar(&contractName, "contract-name", "edu-chain", "records contract name")
	flag.StringVar(&network, "network", "testnet", "ledger network (testnet or mainnet)")
	flag.StringVar(&tokenSecret, "token-secret", "", "secret for signing share tokens")
	flag.StringVar(&baseURL, "base-url", "http://localhost:8080", "public base URL for share links")
	flag.BoolVar(&showVer, "version", false, "show build version and date")
	flag.Parse()

	if showVer {
		fmt.Printf("EduChain Client\nVersion: %s\nBuild Date: %s\n", version, buildDate)
		return
	}
	if tokenSecret == "" {
		log.Fatal("please provide -token-secret")
	}

	net := session.Testnet
	if network == "mainnet" {
		net = session.Mainnet
	}

	logger := zap.NewNop()
	manager := session.NewManager(wallet.NewLocalWallet(keyFile), net, logger)
	httpClient := &http.Client{Timeout: 30 * time.Second}

	c := &cli{
		manager:   manager,
		builder:   stacks.NewBuilder(contractAddress, contractName, network),
		broadcast: stacks.NewBroadcastClient(httpClient, nodeURL, manager, logger, nil),
		query:     stacks.NewQueryClient(httpClient, nodeURL, contractAddress, contractName, contractAddress, manager, logger, nil),
		tokens:    token.NewService([]byte(tokenSecret)),
		directory: repository.NewMemoryDirectory(repository.SeedUsers()),
		baseURL:   baseURL,
	}

	repl(c)
}
