package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/poiesic/docflow"
	"github.com/poiesic/docflow/core"
	"github.com/poiesic/docflow/ingestion"
)

// Sample maintenance reports with bracketed equipment names and
// device/model fields so the entity extractor has something to find.
var reports = []string{
	"设备巡检报告。检查对象:【主轴承】。设备:CNC-01,型号:VX500。运行温度正常,振动值在允许范围内。检测完成。",
	"故障记录。【液压泵】出现异常噪音,压力波动明显。设备:HYD-203。已安排停机检修,更换密封件后恢复正常。",
	"月度保养报告。【冷却塔】水质检测合格。装置:CT-12,型号:KX200。风机轴承已加注润滑脂,皮带张力调整完毕。",
	"异常报警分析。【变频器】过载报警三次。设备:INV-surge7。排查发现散热风道堵塞,清理后报警消除。运行恢复正常。",
	"年度检验摘要。【压力容器】外观无变形,壁厚测量符合标准。型号:PV-880。安全阀校验合格,记录已归档。",
	"Inspection summary. The 【gearbox】 on line 3 showed elevated oil temperature. device: GBX-3A, model: RH45. Oil replaced and filters cleaned. Temperature back to normal.",
}

var (
	dbPath = flag.String("db", "./docflow.db", "path to the local database directory")
	count  = flag.Int("count", len(reports), "number of sample documents to generate")
)

func init() {
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(handler))
	flag.Parse()
}

// sampleFiles generates n sample documents, cycling through the report
// templates when n exceeds them.
func sampleFiles(n int) []ingestion.File {
	files := make([]ingestion.File, 0, n)
	for i := 0; i < n; i++ {
		files = append(files, ingestion.File{
			Name:     fmt.Sprintf("report-%03d.txt", i+1),
			MimeType: "text/plain",
			Data:     []byte(reports[i%len(reports)]),
		})
	}
	return files
}

func main() {
	db, err := docflow.NewDatabase(*dbPath)
	if err != nil {
		panic(err)
	}
	defer db.Close()

	pipeline, err := db.NewIngestionPipeline()
	if err != nil {
		panic(err)
	}
	defer pipeline.Release()

	ctx := context.Background()
	ids, err := pipeline.Ingest(ctx, sampleFiles(*count)...)
	if err != nil {
		panic(err)
	}
	pipeline.Wait()

	var completed int
	for _, id := range ids {
		doc, err := db.DocumentRepository().GetDocument(ctx, id)
		if err != nil {
			panic(err)
		}
		if doc.Status == core.DocumentStatusCompleted {
			completed++
		} else {
			slog.Error("document failed", "id", doc.Id, "error", doc.Error)
		}
	}
	slog.Info("seeding finished", "total", len(ids), "completed", completed)
}
