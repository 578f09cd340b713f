package scorm

// stylesCSS is the player stylesheet shipped as styles.css.
const stylesCSS = `body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', sans-serif;
    margin: 0; padding: 0; background: #f5f5f5; }
#scorm-player { max-width: 1200px; margin: 0 auto; background: white;
    min-height: 100vh; display: flex; flex-direction: column; }
.player-header { background: linear-gradient(135deg, #667eea, #764ba2);
    color: white; padding: 2rem; text-align: center; }
.player-header h1 { margin: 0 0 1rem 0; font-size: 2rem; }
.progress-container { display: flex; align-items: center; gap: 1rem; }
.progress-bar { flex: 1; background: rgba(255,255,255,0.2);
    border-radius: 10px; height: 10px; overflow: hidden; }
.progress-fill { background: #10b981; height: 100%;
    transition: width 0.3s; width: 0%; }
.progress-text { min-width: 40px; }
.player-content { flex: 1; padding: 2rem; }
.template { max-width: 800px; margin: 0 auto; line-height: 1.6; }
.template h2 { color: #333; font-size: 1.8rem;
    border-bottom: 3px solid #667eea; }
.mcq-template { background: #f8f9fa; padding: 2rem; border-radius: 12px;
    margin: 2rem 0; }
.mcq-question { color: #2d3748; font-size: 1.5rem; margin-bottom: 1.5rem; }
.mcq-options { display: flex; flex-direction: column; gap: 1rem; }
.mcq-option { display: flex; align-items: center; background: white;
    padding: 1rem; border-radius: 8px; cursor: pointer; border: 2px solid #e2e8f0;
    transition: all 0.2s; }
.mcq-option:hover { border-color: #667eea; background: #f7fafc; }
.mcq-option.selected { border-color: #10b981; background: #f0fff4; }
.mcq-option input[type="radio"] { margin-right: 0.75rem; }
.option-text { flex: 1; font-size: 1.1rem; }
.mcq-feedback { margin-top: 1.5rem; padding: 1rem; border-radius: 8px;
    font-weight: bold; }
.mcq-feedback .ok { color: #155724; background: #d4edda; border: 1px solid #c3e6cb; }
.mcq-feedback .err { color: #721c24; background: #f8d7da; border: 1px solid #f5c6cb; }
.content-template { background: white; padding: 2rem; border-radius: 12px;
    margin: 2rem 0; box-shadow: 0 2px 4px rgba(0,0,0,0.1); }
.content-title { color: #2d3748; font-size: 1.8rem; margin-bottom: 1.5rem;
    border-bottom: 3px solid #667eea; padding-bottom: 0.5rem; }
.content-body { font-size: 1.1rem; line-height: 1.7; }
.content-body p { margin-bottom: 1rem; }
.content-body ul, .content-body ol { margin: 1rem 0; padding-left: 2rem; }
.content-body li { margin-bottom: 0.5rem; }
.content-body strong { font-weight: 600; color: #2d3748; }
.content-body em { font-style: italic; color: #4a5568; }
.player-controls { background: #f8f9fa; padding: 1.5rem 2rem;
    display: flex; justify-content: space-between; align-items: center; }
.nav-btn, .finish-btn { padding: 0.75rem 1.5rem; border: 2px solid #667eea;
    background: white; color: #667eea; border-radius: 6px; cursor: pointer;
    font-size: 1rem; font-weight: 500; transition: all 0.2s; }
.nav-btn:hover, .finish-btn:hover { background: #667eea; color: white; }
.nav-btn:disabled { opacity: 0.5; cursor: not-allowed; }
.finish-btn { background: #10b981; border-color: #10b981; color: white; }
.finish-btn:hover { background: #059669; }
.slide-counter { font-weight: 500; color: #4a5568; }
.error { background: #fed7d7; color: #c53030; padding: 1rem; border-radius: 6px;
    border: 1px solid #feb2b2; }
@media (max-width: 768px) {
    .player-header { padding: 1rem; }
    .player-header h1 { font-size: 1.5rem; }
    .player-content { padding: 1rem; }
    .mcq-template, .content-template { padding: 1rem; margin: 1rem 0; }
    .mcq-question { font-size: 1.3rem; }
    .content-title { font-size: 1.5rem; }
    .player-controls { padding: 1rem; flex-direction: column; gap: 1rem; }
    .nav-btn, .finish-btn { padding: 0.5rem 1rem; font-size: 0.9rem; }
}
@media (max-width: 480px) {
    .mcq-options { gap: 0.5rem; }
    .mcq-option { padding: 0.75rem; }
    .option-text { font-size: 1rem; }
    .progress-container { flex-direction: column; gap: 0.5rem; }
    .progress-text { min-width: auto; }
}
`
