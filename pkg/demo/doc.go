// Package demo 基于 actor 包的示例程序
//
// 每个示例向给定的 io.Writer 输出运行过程，
// 由 cmd/minactor 的子命令驱动，也可直接在测试中运行。
package demo
