// dnswiredump decodes a DNS wire-format message and prints its fields.
//
// Usage:
//
//	dnswiredump <hex-encoded-message>
//	dnswiredump -tcp <hex-encoded-message>   # strip the 2-byte TCP length prefix
//	echo <hex> | dnswiredump
//
// Example output:
//
//	ID=4660 QR=RESPONSE OPCODE=0 RCODE=0 QD=1 AN=1 NS=0 AR=0
//	;; QUESTION
//	test.local.       IN  1
//	;; ANSWER
//	test.local.   120  IN  1     192.168.1.100
//
// TYPE is printed as its numeric code.
package main

import (
	"bufio"
	"encoding/hex"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/mkerrig/dnswire"
	"github.com/mkerrig/dnswire/internal/rdata"
)

func main() {
	tcp := flag.Bool("tcp", false, "input is TCP-framed (strip the 2-byte length prefix)")
	flag.Parse()

	raw, err := readInput(flag.Args())
	if err != nil {
		log.Fatalf("dnswiredump: %v", err)
	}

	data, err := hex.DecodeString(strings.TrimSpace(raw))
	if err != nil {
		log.Fatalf("dnswiredump: decoding hex input: %v", err)
	}
	if *tcp {
		if len(data) < 2 {
			log.Fatalf("dnswiredump: -tcp input shorter than the 2-byte length prefix")
		}
		data = data[2:]
	}

	msg, err := dnswire.Decode(data)
	if err != nil {
		log.Fatalf("dnswiredump: decoding message: %v", err)
	}

	dump(msg)
}

func readInput(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	if scanner.Scan() {
		return scanner.Text(), nil
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return "", fmt.Errorf("no input provided")
}

func dump(m *dnswire.Message) {
	fmt.Printf("ID=%d QR=%s OPCODE=%d RCODE=%d QD=%d AN=%d NS=%d AR=%d\n",
		m.Header.ID, m.Header.Flags.QR, m.Header.Flags.Opcode, m.Header.Flags.RCode,
		m.Header.QDCount, m.Header.ANCount, m.Header.NSCount, m.Header.ARCount)

	if len(m.Questions) > 0 {
		fmt.Println(";; QUESTION")
		for _, q := range m.Questions {
			fmt.Printf("%s\tIN\t%d\n", q.Name, q.Type)
		}
	}
	dumpRecords("ANSWER", m.Answers)
	dumpRecords("AUTHORITY", m.Authorities)

	if len(m.Additionals) > 0 {
		fmt.Println(";; ADDITIONAL")
		for _, r := range m.Additionals {
			switch v := r.(type) {
			case dnswire.ResourceRecord:
				fmt.Printf("%s\t%d\tIN\t%d\t%s\n", v.Name, v.TTL, v.Type, rdataString(v.RData))
			case dnswire.OPTRecord:
				fmt.Printf(".\tOPT\tudpsize=%d version=%d do=%v\n", v.UDPSize, v.Version, v.DO)
			}
		}
	}
}

func dumpRecords(label string, rrs []dnswire.ResourceRecord) {
	if len(rrs) == 0 {
		return
	}
	fmt.Printf(";; %s\n", label)
	for _, rr := range rrs {
		fmt.Printf("%s\t%d\tIN\t%d\t%s\n", rr.Name, rr.TTL, rr.Type, rdataString(rr.RData))
	}
}

func rdataString(rd rdata.RData) string {
	switch v := rd.(type) {
	case rdata.A:
		return fmt.Sprintf("%d.%d.%d.%d", v.Addr[0], v.Addr[1], v.Addr[2], v.Addr[3])
	case rdata.AAAA:
		return fmt.Sprintf("%x", v.Addr)
	case rdata.CNAME:
		return v.Name
	case rdata.NS:
		return v.Name
	case rdata.PTR:
		return v.Name
	case rdata.MX:
		return fmt.Sprintf("%d %s", v.Preference, v.Exchange)
	case rdata.TXT:
		return strings.Join(v.Strings, " ")
	case rdata.SRV:
		return fmt.Sprintf("%d %d %d %s", v.Priority, v.Weight, v.Port, v.Target)
	case rdata.SOA:
		return fmt.Sprintf("%s %s %d %d %d %d %d", v.MName, v.RName, v.Serial, v.Refresh, v.Retry, v.Expire, v.Minimum)
	case rdata.CAA:
		return fmt.Sprintf("%v %s %q", v.IssuerCritical, v.Tag, v.Value)
	case rdata.Unknown:
		return fmt.Sprintf("\\# %d %x", len(v.Data), v.Data)
	default:
		return fmt.Sprintf("%#v", rd)
	}
}
